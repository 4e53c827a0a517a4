package model

import (
	"strings"
)

// Unset is the sentinel the ArcGIS geoprocessing dialog passes for an
// optional parameter the user left empty.
const Unset = "#"

// CleanupProgram is the program name of the temp-file cleanup dispatch
// that ends most pipelines. A Command with this Path is not a LAStools
// executable; dispatchers handle it natively by deleting the files that
// match its single glob argument.
const CleanupProgram = "del"

// Token is one element of a command line handed to a LAStools executable.
//
// Quoted marks path-like values (input files, output directories, polygon
// shapefiles). They are shown in double quotes when the command line is
// echoed to the host message log so a user can copy-paste it into a
// Windows shell, but the quotes are never part of the actual argument.
type Token struct {
	// Value is the raw argument exactly as the child process receives it.
	Value string `json:"value"`

	// Quoted controls whether String() wraps the value in double quotes.
	Quoted bool `json:"quoted,omitempty"`
}

// Flag creates an unquoted token such as "-step" or "2".
func Flag(value string) Token {
	return Token{Value: value}
}

// Path creates a token that is echoed in double quotes.
func Path(value string) Token {
	return Token{Value: value, Quoted: true}
}

// Flags converts a list of plain strings into unquoted tokens.
// It is a convenience for the many fixed flag sequences such as
// "-keep_class 2 -extra_pass".
func Flags(values ...string) []Token {
	tokens := make([]Token, 0, len(values))
	for _, v := range values {
		tokens = append(tokens, Flag(v))
	}
	return tokens
}

// String renders the token in its echo form.
func (t Token) String() string {
	if t.Quoted {
		return `"` + t.Value + `"`
	}
	return t.Value
}

// Command is the fully built invocation of one LAStools executable
// (or of the cleanup dispatch). Path is token 0 of the echoed command
// line; Args follow in order.
type Command struct {
	// Path is the absolute path of the executable, or CleanupProgram.
	Path string `json:"path"`

	// Args is the ordered argument list, excluding Path.
	Args []Token `json:"args"`
}

// NewCommand creates a Command for the given executable path with an
// optional initial argument list.
func NewCommand(path string, args ...Token) *Command {
	return &Command{Path: path, Args: append([]Token(nil), args...)}
}

// Append adds tokens to the end of the argument list.
func (c *Command) Append(tokens ...Token) {
	c.Args = append(c.Args, tokens...)
}

// Argv returns the raw argument list (without Path) for exec.
// Display quotes are never included.
func (c *Command) Argv() []string {
	argv := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		argv = append(argv, a.Value)
	}
	return argv
}

// Values returns Path followed by the raw argument values. Tests use it
// to assert on the exact process argument vector.
func (c *Command) Values() []string {
	return append([]string{c.Path}, c.Argv()...)
}

// IsCleanup reports whether this command is the temp-file cleanup dispatch.
func (c *Command) IsCleanup() bool {
	return c.Path == CleanupProgram
}

// String returns the command line in the form echoed to the host message
// log. The executable path is quoted; the cleanup program name is not.
//
// Example:
//
//	"C:\lastools\bin\las2dem.exe" -v -i "C:\data\in.laz" -step 2
func (c *Command) String() string {
	var sb strings.Builder
	if c.IsCleanup() {
		sb.WriteString(c.Path)
	} else {
		sb.WriteString(Path(c.Path).String())
	}
	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	return sb.String()
}

// Result is the outcome of one dispatched command: the child's exit
// status and its stdout and stderr merged into one text blob.
type Result struct {
	// ExitCode is the process exit status. Zero means success.
	ExitCode int `json:"exitCode"`

	// Output is the combined console output of the process.
	Output string `json:"output"`
}

// Success reports whether the process exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}
