// Package common provides shared constants, types, and utilities
// used across the windscribe client.
package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "Windscribe Client"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "windscribe-client"
	// KeyringService is the service name used in the system keyring.
	KeyringService = "windscribe-client"
)

// File names used by the application.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "windscribe-client.log"
)

// External binary defaults.
const (
	// DefaultBinary is the external VPN client driven by this program.
	DefaultBinary = "windscribe"
	// UsernameEnv and PasswordEnv are consulted when login is called
	// without explicit credentials.
	UsernameEnv = "WINDSCRIBE_USER"
	PasswordEnv = "WINDSCRIBE_PW"
)

// Default timeouts.
const (
	// ReadTimeout bounds a single blocking read or prompt wait.
	ReadTimeout = 30 * time.Second
	// CommandTimeout bounds a whole operation, spawn to reap.
	CommandTimeout = 2 * time.Minute
	// ProbeTimeout bounds one reachability query.
	ProbeTimeout = 3 * time.Second
	// TerminateGrace is how long Terminate lets a process that already closed
	// its output exit on its own before killing it.
	TerminateGrace = 2 * time.Second
)
