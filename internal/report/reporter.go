package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Messenger is the host message-logging sink. It is the only integration
// point with the surrounding geoprocessing application.
type Messenger interface {
	AddMessage(msg string)
}

// Console writes every message as its own line to an io.Writer.
// It is safe for concurrent use, although the toolbox itself never
// reports from more than one goroutine.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a Console messenger writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// AddMessage writes msg followed by a single newline. Trailing newlines
// already present in tool output are trimmed so that output blocks do
// not end in blank lines.
func (c *Console) AddMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, strings.TrimRight(msg, "\r\n"))
}

// Recorder keeps messages in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []string
}

// AddMessage appends msg to Messages.
func (r *Recorder) AddMessage(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, msg)
}

// Contains reports whether any recorded message contains substr.
func (r *Recorder) Contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// Discard drops every message.
type Discard struct{}

// AddMessage does nothing.
func (Discard) AddMessage(string) {}

// Reporter formats the toolbox message vocabulary onto a Messenger.
type Reporter struct {
	m Messenger
}

// New creates a Reporter on top of m.
func New(m Messenger) *Reporter {
	return &Reporter{m: m}
}

// Messenger returns the underlying sink so lower layers (the locator)
// can report through the same channel.
func (r *Reporter) Messenger() Messenger {
	return r.m
}

// Message forwards an arbitrary line.
func (r *Reporter) Message(format string, args ...interface{}) {
	r.m.AddMessage(fmt.Sprintf(format, args...))
}

// Starting announces the tool or pipeline about to run.
func (r *Reporter) Starting(name string) {
	r.Message("Starting %s ...", name)
}

// CommandLine echoes a command before it is dispatched. The cleanup
// dispatch gets its own heading so users can tell it apart from a
// LAStools invocation.
func (r *Reporter) CommandLine(cmd *model.Command) {
	if cmd.IsCleanup() {
		r.m.AddMessage("clean-up command line:")
	} else {
		r.m.AddMessage("LAStools command line:")
	}
	r.m.AddMessage(cmd.String())
}

// Output relays the captured console output of a dispatched command.
func (r *Reporter) Output(res *model.Result) {
	r.m.AddMessage(res.Output)
}

// Failed reports a failed single-tool run and returns the matching error.
func (r *Reporter) Failed(name string) *model.CLIError {
	msg := fmt.Sprintf("Error. %s failed.", name)
	r.m.AddMessage(msg)
	return model.SubprocessError("%s", msg)
}

// StageFailed reports a failed pipeline stage and returns the matching error.
func (r *Reporter) StageFailed(pipeline, stage string) *model.CLIError {
	msg := fmt.Sprintf("Error. %s failed in %s step.", pipeline, stage)
	r.m.AddMessage(msg)
	return model.SubprocessError("%s", msg)
}

// StageDone reports a completed pipeline stage.
func (r *Reporter) StageDone(stage string) {
	r.Message("%s step done.", stage)
}

// Success reports a completed tool or pipeline.
func (r *Reporter) Success(name string) {
	r.Message("Success. %s done.", name)
}
