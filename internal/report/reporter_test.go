package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// TestConsole_AddMessage verifies one line per message with trailing
// newlines of tool output collapsed.
func TestConsole_AddMessage(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.AddMessage("Starting las2dem ...")
	c.AddMessage("line one\nline two\r\n\n")

	assert.Equal(t, "Starting las2dem ...\nline one\nline two\n", buf.String())
}

// TestReporter_Vocabulary checks the fixed message formats.
func TestReporter_Vocabulary(t *testing.T) {
	rec := &Recorder{}
	r := New(rec)

	r.Starting("las2dem")
	r.CommandLine(model.NewCommand(`C:\lastools\bin\las2dem.exe`, model.Flag("-i"), model.Path("in.laz")))
	r.Output(&model.Result{Output: "done"})
	r.StageDone("lastile")
	r.Success("las2dem")

	assert.Equal(t, []string{
		"Starting las2dem ...",
		"LAStools command line:",
		`"C:\lastools\bin\las2dem.exe" -i "in.laz"`,
		"done",
		"lastile step done.",
		"Success. las2dem done.",
	}, rec.Messages)
}

// TestReporter_CleanupHeading verifies the clean-up heading.
func TestReporter_CleanupHeading(t *testing.T) {
	rec := &Recorder{}
	New(rec).CommandLine(model.NewCommand(model.CleanupProgram, model.Flag("temp*.laz")))

	assert.Equal(t, []string{"clean-up command line:", "del temp*.laz"}, rec.Messages)
}

// TestReporter_Failures verifies failure messages double as errors.
func TestReporter_Failures(t *testing.T) {
	rec := &Recorder{}
	r := New(rec)

	err := r.Failed("lasground")
	require.NotNil(t, err)
	assert.Equal(t, "Error. lasground failed.", err.Message)
	assert.Equal(t, model.KindSubprocess, err.Kind)

	err = r.StageFailed("huge_file_remove_duplicates", "lasduplicate")
	assert.Equal(t, "Error. huge_file_remove_duplicates failed in lasduplicate step.", err.Message)
	assert.True(t, rec.Contains("failed in lasduplicate step"))
	assert.False(t, rec.Contains("Success."))
}

// TestDiscard ensures the discard messenger is usable as a Messenger.
func TestDiscard(t *testing.T) {
	var m Messenger = Discard{}
	m.AddMessage("ignored")
}
