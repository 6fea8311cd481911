// Package main is the entry point for the build-descriptor CLI.
//
// The binary resolves the Android build parameters of a generated Flutter
// wrapper project and renders them for Gradle. All functionality lives in
// the internal/cli package.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development they default to "dev", "none", and "unknown".
package main

import (
	"github.com/shinji-kodama/build-descriptor/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
