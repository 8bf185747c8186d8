// Package cli implements the spatialdash command-line interface.
//
// The commands cover the platform's admin surface (login, users, API keys,
// statistics), the spatial surface (spaces, anchors, nearby search), the
// interactive anchor editor, snapshot rendering, bundle import and export,
// and a local development API server. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - login, logout, whoami: Manage the stored platform session
//   - spaces, anchors: Inspect and edit platform data
//   - editor: Place anchors interactively in the terminal
//   - render: Write PNG or SVG snapshots of a space's canvas
//   - export, import: Move spaces and anchors as JSON or YAML bundles
//   - serve: Run an in-memory platform API for development
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every API request and cache lookup. Loggers are passed through
// context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/SpatialOS-Platform/spatial-os-dashboard/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"os"
)

// Execute runs the spatialdash CLI with ctx and returns an error if any
// command fails. Logs go to stderr.
func Execute(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
