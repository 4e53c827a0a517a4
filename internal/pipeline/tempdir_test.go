package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/report"
)

func TestCheckTempDir(t *testing.T) {
	rec := &report.Recorder{}
	dir := t.TempDir()

	require.NoError(t, CheckTempDir(dir, true, rec))
	assert.Equal(t, []string{"Found " + dir + " ...", "And it's empty ..."}, rec.Messages)
}

// TestCheckTempDir_OptionalUnset verifies that the huge-file pipelines
// may run without a temp directory.
func TestCheckTempDir_OptionalUnset(t *testing.T) {
	rec := &report.Recorder{}
	require.NoError(t, CheckTempDir(model.Unset, false, rec))
	assert.Empty(t, rec.Messages)
}

func TestCheckTempDir_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "temp.laz")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	err := CheckTempDir(file, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot find empty temp dir")
}
