package toolbox

import (
	"sort"
	"strings"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Schema is the ordered parameter list of a tool or pipeline. Position N
// of the dialog argument vector belongs to Schema[N]; one trailing
// argument carries the verbose checkbox.
type Schema []Param

// Params builds a Schema. It exists so catalog entries read as a list.
func Params(params ...Param) Schema {
	return Schema(params)
}

// ArgCount returns the number of positional arguments the schema
// expects, including the trailing verbose flag.
func (s Schema) ArgCount() int {
	return len(s) + 1
}

// Names returns the parameter names in order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, p := range s {
		names = append(names, p.Name)
	}
	return names
}

// Lookup returns the parameter with the given name.
func (s Schema) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Parse reads a positional argument vector into named values. The last
// argument is the verbose flag.
//
// Steps:
//  1. Check the argument count.
//  2. Assign positions to names.
//  3. Validate required and numeric parameters.
func (s Schema) Parse(args []string) (model.Values, bool, error) {
	// Step 1: The dialog always passes every parameter, so any other
	// count means the toolbox definition and this binary disagree.
	if len(args) != s.ArgCount() {
		return nil, false, model.ArgumentError(
			"Wrong number of arguments. Got %d expected %d", len(args), s.ArgCount())
	}

	// Step 2: Positional to named.
	values := make(model.Values, len(s))
	for i, p := range s {
		values[p.Name] = args[i]
	}
	verbose := model.IsTrue(args[len(args)-1])

	// Step 3: Validation.
	if err := s.Validate(values); err != nil {
		return nil, false, err
	}
	return values, verbose, nil
}

// FromMap builds values from a name-keyed map such as a parameter file.
// Names missing from m take their default; names not in the schema are
// rejected.
func (s Schema) FromMap(m map[string]string) (model.Values, error) {
	var unknown []string
	for name := range m {
		if _, ok := s.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, model.ArgumentError("unknown parameter(s): %s", strings.Join(unknown, ", "))
	}

	values := make(model.Values, len(s))
	for _, p := range s {
		if v, ok := m[p.Name]; ok {
			values[p.Name] = v
		} else {
			values[p.Name] = p.Default
		}
	}

	if err := s.Validate(values); err != nil {
		return nil, err
	}
	return values, nil
}

// Validate checks required and numeric parameters.
func (s Schema) Validate(values model.Values) error {
	for _, p := range s {
		v := values.Get(p.Name)
		if p.Required && (v == model.Unset || strings.TrimSpace(v) == "") {
			return model.ArgumentError("parameter %s is required", p.Name)
		}
		if p.Numeric && !isDefault(v, p.Default) && !model.IsNumeric(v) {
			return model.ArgumentError("parameter %s: %q is not a number", p.Name, v)
		}
	}
	return nil
}

// Emit walks the schema in order and concatenates the tokens of every
// parameter.
func (s Schema) Emit(values model.Values) ([]model.Token, error) {
	var tokens []model.Token
	for _, p := range s {
		t, err := p.Emit(values)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t...)
	}
	return tokens, nil
}
