package toolbox

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTool_Describe(t *testing.T) {
	tool, ok := Lookup("lasdiff")
	require.True(t, ok)

	d := tool.Describe()
	assert.Equal(t, "lasdiff", d.Name)
	assert.Equal(t, []string{"lasdiff"}, d.Executables)
	assert.Equal(t, 5, d.Arguments)
	require.Len(t, d.Parameters, 5)

	assert.Equal(t, ParamInfo{Position: 1, Name: "input_file", Default: "#", Required: true, Help: "input LiDAR file"}, d.Parameters[0])
	assert.Equal(t, "random_seeks", d.Parameters[2].Name)
	assert.True(t, d.Parameters[2].Numeric)
	assert.Equal(t, ParamInfo{Position: 5, Name: "verbose", Default: "false", Help: "pass -v to the LAStools executable"}, d.Parameters[4])
}

func TestDescription_YAML(t *testing.T) {
	tool, _ := Lookup("lastile")

	out, err := tool.Describe().YAML()
	require.NoError(t, err)

	var back Description
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *tool.Describe(), back)
	assert.Contains(t, string(out), "name: tile_size")
}

func TestDescription_JSON(t *testing.T) {
	tool, _ := Lookup("lastile")

	out, err := tool.Describe().JSON()
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "lastile", back["name"])
	assert.Equal(t, float64(tool.Params.ArgCount()), back["arguments"])
}
