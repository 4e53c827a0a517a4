// Package cli implements the cobra-based CLI commands for lastools-toolbox.
//
// Each subcommand (run, pipeline, tools, describe, containers) is defined
// in its own file within this package. This file defines the root command
// that serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// In JSON mode the toolbox messages move to stderr and stdout carries
	// only the machine-readable result.
	jsonOutput bool

	// verbose enables debug-level diagnostic logging on stderr.
	verbose bool

	// configPath points at an explicit configuration file.
	configPath string

	// lastoolsRoot overrides the LAStools install root.
	lastoolsRoot string
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// executablePath returns the path of the running binary. The install
// root and the default config file location are derived from it.
var executablePath = os.Executable

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It only provides
// help text and global flags; the subcommands do the work.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lastools-toolbox",
		Short: "Run LAStools executables and processing pipelines",
		Long: `lastools-toolbox is the script layer behind the LAStools ArcGIS toolbox.

It turns the positional arguments of a toolbox dialog into a LAStools
command line, runs the executable, relays its console output and reports
success or failure. Pipelines chain several tools through a temp directory
and clean up after themselves.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&lastoolsRoot, "lastools", "", "LAStools install root (default: derived from the executable location)")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewPipelineCommand())
	rootCmd.AddCommand(NewToolsCommand())
	rootCmd.AddCommand(NewDescribeCommand())
	rootCmd.AddCommand(NewContainersCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors default to
// exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(os.Stderr, cliErr.Message, cliErr.Kind, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error, e.g. an unknown flag reported by cobra.
		printError(os.Stderr, err.Error(), "", nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, kind model.ErrorKind, underlying error) {
	if jsonOutput {
		errMap := map[string]interface{}{
			"message": message,
		}
		if kind != "" {
			errMap["kind"] = kind.String()
		}
		if underlying != nil {
			errMap["detail"] = underlying.Error()
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errMap}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog writes a debug line through the diagnostic logger. It is
// only visible with --verbose or a debug log level.
func VerboseLog(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
