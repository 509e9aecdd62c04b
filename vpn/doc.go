// Package vpn drives the Windscribe command line client.
//
// This package implements the operations a user performs with the client:
//
//   - Authentication: login with credentials from arguments, the environment
//     or the system keyring, and logout
//   - Connection management: connect to the best, a random or a named
//     location, disconnect, and query the tunnel status
//   - Information: list locations, show the account and the client version
//
// # Architecture
//
// The package is organized around one main type:
//
//   - Client: spawns one external process per operation through a
//     session.Launcher and turns its output into typed values
//
// Prompt texts and the messages that signal failures are collected in
// Phrases and can be overridden from the configuration file when the client
// changes its wording.
//
// # Login Flow
//
// A typical login:
//
//  1. Missing credentials are resolved before anything is started
//  2. The login command is spawned on a pseudo-terminal
//  3. The first of the username prompt or the already-logged-in notice
//     decides the path
//  4. Username and password are sent in that order
//  5. The remaining output is checked for rejection or network failure
//
// # Reachability
//
// When a Prober is configured, network commands fail fast with
// common.ErrConnection while offline, and a timed-out command is reported
// as a connection error if the network turns out to be down.
//
// # Thread Safety
//
// A Client holds no mutable state, but the external client does: callers
// must not run operations concurrently.
package vpn
