package toolbox

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParamInfo is one row of a schema description.
type ParamInfo struct {
	Position int    `yaml:"position" json:"position"`
	Name     string `yaml:"name" json:"name"`
	Default  string `yaml:"default" json:"default"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Numeric  bool   `yaml:"numeric,omitempty" json:"numeric,omitempty"`
	Help     string `yaml:"help,omitempty" json:"help,omitempty"`
}

// Description documents a tool or pipeline: what it runs and which
// positional argument means what.
type Description struct {
	Name        string      `yaml:"name" json:"name"`
	Summary     string      `yaml:"summary" json:"summary"`
	Executables []string    `yaml:"executables" json:"executables"`
	Arguments   int         `yaml:"arguments" json:"arguments"`
	Parameters  []ParamInfo `yaml:"parameters" json:"parameters"`
}

// Describe returns the description of a schema. Positions start at 1,
// matching the argument numbering of the dialog; the trailing verbose
// argument is listed last.
func Describe(name, summary string, executables []string, s Schema) *Description {
	d := &Description{
		Name:        name,
		Summary:     summary,
		Executables: executables,
		Arguments:   s.ArgCount(),
	}
	for i, p := range s {
		d.Parameters = append(d.Parameters, ParamInfo{
			Position: i + 1,
			Name:     p.Name,
			Default:  p.Default,
			Required: p.Required,
			Numeric:  p.Numeric,
			Help:     p.Help,
		})
	}
	d.Parameters = append(d.Parameters, ParamInfo{
		Position: s.ArgCount(),
		Name:     verboseKey,
		Default:  "false",
		Help:     "pass -v to the LAStools executable",
	})
	return d
}

// Describe returns the description of the tool.
func (t *Tool) Describe() *Description {
	return Describe(t.Name, t.Summary, []string{t.Exe}, t.Params)
}

// YAML renders the description as a YAML document.
func (d *Description) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode description: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode description: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON renders the description as indented JSON.
func (d *Description) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
