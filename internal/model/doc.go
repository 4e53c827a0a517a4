// Package model defines the domain types and value objects for the
// lastools-toolbox CLI.
//
// This package contains pure data structures with no external dependencies.
// Everything here lives for the duration of a single tool or pipeline
// invocation: the named argument values received from the geoprocessing
// dialog (Values), the token list handed to a LAStools executable
// (Command), and the outcome of running it (Result).
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
