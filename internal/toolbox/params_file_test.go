package toolbox

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

func TestParseParams(t *testing.T) {
	data := []byte(`{
		// DTM of the harbour tiles
		"input_file": "C:\\data\\harbour.laz",
		"step": 0.5,
		"use_tile_bb": true,
		"output_format": null,
		/* verbose is not a parameter */
		"verbose": true,
	}`)

	pf, err := ParseParams(data)
	require.NoError(t, err)
	assert.True(t, pf.Verbose)
	assert.Equal(t, map[string]string{
		"input_file":    `C:\data\harbour.laz`,
		"step":          "0.5",
		"use_tile_bb":   "true",
		"output_format": model.Unset,
	}, pf.Values)
}

func TestParseParams_Rejects(t *testing.T) {
	_, err := ParseParams([]byte(`{"step": [1, 2]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step")

	_, err = ParseParams([]byte(`{"step": `))
	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.KindArguments, cliErr.Kind)
}

func TestLoadParams_NotFound(t *testing.T) {
	_, err := LoadParams(filepath.Join(t.TempDir(), "missing.jsonc"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParamsFile_Invocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dem.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"input_file": "in.laz",
		"step": "2,5",
		"product": "gray ramp",
		"min": 0,
		"max": 250,
	}`), 0o644))

	pf, err := LoadParams(path)
	require.NoError(t, err)

	tool, _ := Lookup("las2dem")
	inv, err := pf.Invocation(tool)
	require.NoError(t, err)
	assert.False(t, inv.Verbose)

	cmd, err := inv.Build("las2dem.exe")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"las2dem.exe", "-i", "in.laz", "-step", "2.5", "-gray", "-set_min_max", "0", "250",
	}, cmd.Values())
}

func TestParamsFile_UnknownParameter(t *testing.T) {
	pf, err := ParseParams([]byte(`{"input_file": "in.laz", "stepsize": 2}`))
	require.NoError(t, err)

	tool, _ := Lookup("las2dem")
	_, err = pf.Invocation(tool)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stepsize")
}
