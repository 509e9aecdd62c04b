// Package common provides shared constants, types, and utilities
// used throughout the windscribe client.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: binary name, environment variable names, timeouts, file names
//   - Errors: Sentinel errors and typed wrappers for every failure kind the
//     client reports
//   - Logger: Leveled logging with an optional rotating file sink
//   - Utils: Config directory helpers and case-insensitive phrase matching
//
// # Usage
//
//	// Use constants
//	timeout := common.ReadTimeout
//
//	// Use logger
//	common.LogInfo("Connecting to %s", label)
//
//	// Check errors
//	if errors.Is(err, common.ErrNotLoggedIn) {
//	    // Prompt for login
//	}
//
// # Error Kinds
//
// Output-format failures (ErrUnsupportedOutput, ErrUnrecognizedProtocol,
// ErrSchema) are returned as *OutputError values that carry the raw lines the
// external binary printed. They are never retried: a format mismatch is not
// transient.
package common
