// Package main is the entry point for the lastools-toolbox CLI.
//
// The ArcGIS toolbox invokes this binary once per tool or pipeline run with
// the dialog values as positional arguments. All functionality lives in
// the internal/cli package, which defines the cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags
// at release time. During development, they default to "dev", "none",
// and "unknown" respectively.
package main

import (
	"github.com/shinji-kodama/lastools-toolbox/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
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
