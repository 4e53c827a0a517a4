package model

import (
	"fmt"
)

// ExitCode defines the CLI exit codes. ArcGIS script tools only
// distinguish success from failure, so every detected failure maps to
// ExitGeneralError; the error Kind carries the finer classification.
type ExitCode int

const (
	// ExitSuccess indicates the tool or pipeline completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates any detected failure: a bad install
	// path, a missing executable, a bad temp directory, a malformed
	// argument vector, or a non-zero exit from a wrapped tool.
	ExitGeneralError ExitCode = 1
)

// ErrorKind classifies a CLIError for messages and JSON output.
type ErrorKind string

const (
	// KindConfig covers environment problems detected before anything
	// is spawned: install path, executables, temp directory, config file.
	KindConfig ErrorKind = "config"

	// KindArguments covers a malformed argument vector or parameter file.
	KindArguments ErrorKind = "arguments"

	// KindSubprocess covers a wrapped tool (or the cleanup step) that
	// exited with a non-zero status.
	KindSubprocess ErrorKind = "subprocess"
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	return string(k)
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Kind classifies the failure. Empty for errors created through
	// NewCLIError/WrapCLIError without a kind.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ConfigError creates a KindConfig error with ExitGeneralError.
func ConfigError(format string, args ...interface{}) *CLIError {
	return &CLIError{Code: ExitGeneralError, Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// ArgumentError creates a KindArguments error with ExitGeneralError.
func ArgumentError(format string, args ...interface{}) *CLIError {
	return &CLIError{Code: ExitGeneralError, Kind: KindArguments, Message: fmt.Sprintf(format, args...)}
}

// SubprocessError creates a KindSubprocess error with ExitGeneralError.
func SubprocessError(format string, args ...interface{}) *CLIError {
	return &CLIError{Code: ExitGeneralError, Kind: KindSubprocess, Message: fmt.Sprintf(format, args...)}
}

// WithErr attaches an underlying error and returns the receiver, so the
// kind constructors can be chained: ConfigError("...").WithErr(err).
func (e *CLIError) WithErr(err error) *CLIError {
	e.Err = err
	return e
}
