// Package common provides shared constants, types, and utilities
// used across the windscribe client.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for client operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Process errors.
	ErrSpawn   = errors.New("failed to start external binary")
	ErrTimeout = errors.New("operation timed out")

	// Network errors.
	ErrConnection = errors.New("no network connectivity")

	// Credential and account errors.
	ErrMissingCredential  = errors.New("missing credential")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrProAccountRequired = errors.New("pro account required")

	// Output format errors. The external binary's text is a fixed contract;
	// these mean it changed or was garbled.
	ErrUnsupportedOutput    = errors.New("unsupported command output")
	ErrUnrecognizedProtocol = errors.New("unrecognized prompt protocol")
	ErrSchema               = errors.New("output schema mismatch")
)

// MissingCredentialError reports which credential was absent from both the
// explicit arguments and every fallback source.
type MissingCredentialError struct {
	// Field is "username" or "password".
	Field string
	// Sources lists where the value was looked up.
	Sources []string
}

func (e *MissingCredentialError) Error() string {
	if len(e.Sources) == 0 {
		return fmt.Sprintf("missing %s", e.Field)
	}
	return fmt.Sprintf("missing %s (looked in %s)", e.Field, strings.Join(e.Sources, ", "))
}

// Is makes errors.Is(err, ErrMissingCredential) succeed.
func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// OutputError carries the raw output that could not be interpreted, or that
// was interpreted as a failure, together with the failure kind.
type OutputError struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Command is the command line that produced the output.
	Command string
	// Detail is an optional human-readable explanation.
	Detail string
	// Output holds the sanitized lines observed.
	Output []string
}

func (e *OutputError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Command != "" {
		b.WriteString(" from ")
		b.WriteString(e.Command)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Output) > 0 {
		fmt.Fprintf(&b, " %q", e.Output)
	}
	return b.String()
}

func (e *OutputError) Unwrap() error {
	return e.Kind
}

// NewOutputError builds an OutputError of the given kind.
func NewOutputError(kind error, command, detail string, output []string) *OutputError {
	return &OutputError{
		Kind:    kind,
		Command: command,
		Detail:  detail,
		Output:  output,
	}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
