// Package main provides the entry point for windscribe-client, a command
// line front end that drives the interactive windscribe CLI and turns its
// text output into typed results and errors.
//
// Usage:
//
//	windscribe-client [command] [flags]
//
// Environment:
//
//	The windscribe CLI must be installed. WINDSCRIBE_USER and WINDSCRIBE_PW
//	are read by login when no credentials are passed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yllada/windscribe-client/cli"
	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/ui"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	version := appVersion
	if buildTime != "unknown" {
		version = fmt.Sprintf("%s (build %s, commit %s)", appVersion, buildTime, commitSHA)
	}
	cli.SetVersion(version)

	// Cancel the running command on SIGINT/SIGTERM so the child process is
	// terminated instead of orphaned.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCmd().ExecuteContext(ctx)
	common.CloseLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		os.Exit(1)
	}
}
