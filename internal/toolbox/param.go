package toolbox

import (
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// EmitFunc produces the tokens of one parameter from the full set of
// named values. It receives every value, not only its own, because some
// dialog controls only make sense together (a drop-down and the number
// typed next to it).
type EmitFunc func(v model.Values) ([]model.Token, error)

// Param is one named dialog parameter.
type Param struct {
	// Name identifies the parameter in Values, parameter files and
	// describe output.
	Name string `yaml:"name" json:"name"`

	// Default is the value that produces no tokens. Parameter files that
	// omit the parameter get this value.
	Default string `yaml:"default" json:"default"`

	// Required parameters must not be Unset.
	Required bool `yaml:"required,omitempty" json:"required,omitempty"`

	// Numeric parameters must parse as a number (after decimal comma
	// normalization) whenever they differ from Default and Unset.
	Numeric bool `yaml:"numeric,omitempty" json:"numeric,omitempty"`

	// Help is a one-line description for describe output.
	Help string `yaml:"help,omitempty" json:"help,omitempty"`

	emit EmitFunc
}

// Emit returns the parameter's tokens for v. Companion parameters that
// are consumed by a sibling emit nothing.
func (p Param) Emit(v model.Values) ([]model.Token, error) {
	if p.emit == nil {
		return nil, nil
	}
	return p.emit(v)
}

// Describe sets the help text.
func (p Param) Describe(help string) Param {
	p.Help = help
	return p
}

// Require marks the parameter as mandatory.
func (p Param) Require() Param {
	p.Required = true
	return p
}

// AsNumber marks the parameter as numeric.
func (p Param) AsNumber() Param {
	p.Numeric = true
	return p
}

// WithDefault overrides the default value.
func (p Param) WithDefault(def string) Param {
	p.Default = def
	return p
}

// isDefault reports whether value is Unset or equal to def. Numeric
// defaults compare after decimal normalization so that "0,5" matches a
// default of "0.5".
func isDefault(value, def string) bool {
	if value == model.Unset || value == def {
		return true
	}
	return model.NormalizeDecimal(value) == model.NormalizeDecimal(def)
}

// Input emits `-i "<file>"`. Inputs are always required.
func Input(name string) Param {
	return Param{
		Name:     name,
		Default:  model.Unset,
		Required: true,
		Help:     "input LiDAR file",
		emit: func(v model.Values) ([]model.Token, error) {
			return []model.Token{model.Flag("-i"), model.Path(v.Get(name))}, nil
		},
	}
}

// OptionalInput emits `-i "<file>"` only when set.
func OptionalInput(name string) Param {
	return Param{
		Name:    name,
		Default: model.Unset,
		Help:    "optional second input file",
		emit: func(v model.Values) ([]model.Token, error) {
			if !v.IsSet(name) {
				return nil, nil
			}
			return []model.Token{model.Flag("-i"), model.Path(v.Get(name))}, nil
		},
	}
}

// Folder emits one `-i "<folder>/<wildcard>"` per whitespace-separated
// wildcard of the companion wildcards parameter.
func Folder(name, wildcards string) Param {
	return Param{
		Name:     name,
		Default:  model.Unset,
		Required: true,
		Help:     "input folder",
		emit: func(v model.Values) ([]model.Token, error) {
			var tokens []model.Token
			for _, wildcard := range strings.Fields(v.Get(wildcards)) {
				tokens = append(tokens, model.Flag("-i"), model.Path(JoinPath(v.Get(name), wildcard)))
			}
			return tokens, nil
		},
	}
}

// Wildcards is the companion of Folder.
func Wildcards(name string) Param {
	return Companion(name, "*.laz").Describe("whitespace-separated file wildcards")
}

// Value emits `<flag> <value>` verbatim when the value is set and differs
// from def.
func Value(name, flag, def string) Param {
	return Param{
		Name:    name,
		Default: def,
		emit: func(v model.Values) ([]model.Token, error) {
			value := v.Get(name)
			if isDefault(value, def) {
				return nil, nil
			}
			return model.Flags(flag, value), nil
		},
	}
}

// Number is a Decimal used for counts and codes. Decimal commas are
// normalized here as well, so "1,5" never reaches the executable.
func Number(name, flag, def string) Param {
	return Decimal(name, flag, def)
}

// Decimal emits `<flag> <value>` with decimal commas normalized when the
// value is set and differs from def.
func Decimal(name, flag, def string) Param {
	return Param{
		Name:    name,
		Default: def,
		Numeric: true,
		emit: func(v model.Values) ([]model.Token, error) {
			value := v.Get(name)
			if isDefault(value, def) {
				return nil, nil
			}
			return model.Flags(flag, model.NormalizeDecimal(value)), nil
		},
	}
}

// Switch emits flag when the checkbox is "true".
func Switch(name, flag string) Param {
	return Param{
		Name:    name,
		Default: "false",
		emit: func(v model.Values) ([]model.Token, error) {
			if !v.IsTrue(name) {
				return nil, nil
			}
			return model.Flags(flag), nil
		},
	}
}

// Unless emits flag when the checkbox is "false". It models dialog
// options that are on by default, such as "airborne" (-not_airborne).
func Unless(name, flag string) Param {
	return Param{
		Name:    name,
		Default: "true",
		emit: func(v model.Values) ([]model.Token, error) {
			if !v.IsFalse(name) {
				return nil, nil
			}
			return model.Flags(flag), nil
		},
	}
}

// Choice maps a drop-down label through table. Labels absent from the
// table, including the default, emit nothing.
func Choice(name, def string, table map[string][]string) Param {
	return Param{
		Name:    name,
		Default: def,
		emit: func(v model.Values) ([]model.Token, error) {
			return model.Flags(table[v.Get(name)]...), nil
		},
	}
}

// Dash emits "-<value>" when the value is set and differs from def.
// LAStools names some modes directly as flags (-highest, -intensity).
func Dash(name, def string) Param {
	return Param{
		Name:    name,
		Default: def,
		emit: func(v model.Values) ([]model.Token, error) {
			value := v.Get(name)
			if isDefault(value, def) {
				return nil, nil
			}
			return model.Flags("-" + value), nil
		},
	}
}

// QuotedValue emits `<flag> "<value>"` when set.
func QuotedValue(name, flag string) Param {
	return Param{
		Name:    name,
		Default: model.Unset,
		emit: func(v model.Values) ([]model.Token, error) {
			if !v.IsSet(name) {
				return nil, nil
			}
			return []model.Token{model.Flag(flag), model.Path(v.Get(name))}, nil
		},
	}
}

// RasterFormat emits "-o<format>" (for example -obil, -otif) when set.
func RasterFormat(name string) Param {
	return Param{
		Name:    name,
		Default: model.Unset,
		Help:    "output raster or vector format",
		emit: func(v model.Values) ([]model.Token, error) {
			if !v.IsSet(name) {
				return nil, nil
			}
			return model.Flags("-o" + v.Get(name)), nil
		},
	}
}

// PointFormat maps a point-cloud format label through table.
func PointFormat(name string, table map[string][]string) Param {
	return Choice(name, model.Unset, table).Describe("output point format")
}

// OutputFile emits `-o "<file>"` when set.
func OutputFile(name string) Param {
	return QuotedValue(name, "-o").Describe("output file")
}

// OutputDir emits `-odir "<dir>"` when set.
func OutputDir(name string) Param {
	return QuotedValue(name, "-odir").Describe("output directory")
}

// OutputAppendix emits `-odix "<appendix>"` when set.
func OutputAppendix(name string) Param {
	return QuotedValue(name, "-odix").Describe("output file name appendix")
}

// Cores emits `-cores <n>` unless n is "1".
func Cores(name string) Param {
	return Number(name, "-cores", "1").Describe("number of cores")
}

// Extra splits the "additional options" string on whitespace and
// appends the pieces verbatim.
func Extra(name string) Param {
	return Param{
		Name:    name,
		Default: model.Unset,
		Help:    "additional command line options",
		emit: func(v model.Values) ([]model.Token, error) {
			if !v.IsSet(name) {
				return nil, nil
			}
			return model.Flags(strings.Fields(v.Get(name))...), nil
		},
	}
}

// Companion is a parameter that emits nothing itself; a sibling Custom
// parameter reads it.
func Companion(name, def string) Param {
	return Param{Name: name, Default: def}
}

// Custom wraps arbitrary emit logic.
func Custom(name, def string, emit EmitFunc) Param {
	return Param{Name: name, Default: def, emit: emit}
}

// IgnoreClass emits `-ignore_class <code>` for a classification label.
func IgnoreClass(name string) Param {
	return Param{
		Name:    name,
		Default: model.Unset,
		Help:    "classification to ignore",
		emit: func(v model.Values) ([]model.Token, error) {
			if !v.IsSet(name) {
				return nil, nil
			}
			code, err := classificationCode(name, v.Get(name))
			if err != nil {
				return nil, err
			}
			return model.Flags("-ignore_class", code), nil
		},
	}
}

// JoinPath joins a folder and a file name or wildcard with the host
// separator. An empty or Unset folder leaves the name alone, so the file
// is resolved against the working directory.
func JoinPath(dir, name string) string {
	if dir == "" || dir == model.Unset {
		return name
	}
	return filepath.Join(dir, name)
}
