package toolbox

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/tidwall/jsonc"
)

// ParamsFile is the content of a parameter file: named values plus the
// verbose checkbox. It is the named counterpart of the positional dialog
// argument vector and is meant for batch scripts and CI jobs that would
// otherwise have to count "#" placeholders.
type ParamsFile struct {
	// Values maps parameter names to their string form. Parameters the
	// file omits take their default.
	Values map[string]string

	// Verbose is the "verbose" key of the file.
	Verbose bool
}

// verboseKey is the reserved key carrying the verbose checkbox.
const verboseKey = "verbose"

// LoadParams reads a JSONC parameter file.
//
// A parameter file is a single JSON object. Comments (// and /* */) and
// trailing commas are allowed, so a file can carry notes on why a value
// was chosen. Values may be strings, booleans
// (written as "true"/"false"), numbers (written without exponent) or null
// (written as "#", the unset placeholder).
func LoadParams(path string) (*ParamsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ArgumentError("parameter file not found: %s", path).WithErr(err)
		}
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}
	return ParseParams(data)
}

// ParseParams parses the content of a JSONC parameter file.
func ParseParams(data []byte) (*ParamsFile, error) {
	// Strip comments and trailing commas before handing the document to
	// encoding/json.
	cleanJSON := jsonc.ToJSON(data)

	var raw map[string]interface{}
	if err := json.Unmarshal(cleanJSON, &raw); err != nil {
		return nil, model.ArgumentError("failed to parse parameter file: %v", err).WithErr(err)
	}

	pf := &ParamsFile{Values: make(map[string]string, len(raw))}
	var bad []string
	for key, value := range raw {
		if key == verboseKey {
			switch v := value.(type) {
			case bool:
				pf.Verbose = v
			case string:
				pf.Verbose = model.IsTrue(v)
			default:
				bad = append(bad, key)
			}
			continue
		}

		s, ok := stringify(value)
		if !ok {
			bad = append(bad, key)
			continue
		}
		pf.Values[key] = s
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, model.ArgumentError(
			"parameter file: unsupported value type for %s", strings.Join(bad, ", "))
	}
	return pf, nil
}

// stringify converts a decoded JSON scalar into the string form the
// dialog would have passed.
func stringify(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return model.Unset, true
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case float64:
		return model.FormatFloat(v), true
	default:
		// Arrays and objects have no dialog equivalent.
		return "", false
	}
}

// Invocation builds a tool invocation from the file.
func (pf *ParamsFile) Invocation(t *Tool) (*Invocation, error) {
	return t.FromMap(pf.Values, pf.Verbose)
}
