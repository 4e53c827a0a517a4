package toolbox

import (
	"sort"
	"strings"
	"sync"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Tool is one script tool of the toolbox.
type Tool struct {
	// Name is the toolbox name of the tool, e.g. "las2demPro".
	Name string

	// Exe is the LAStools executable it runs, without suffix, e.g. "las2dem".
	Exe string

	// Summary is a one-line description for the tools listing.
	Summary string

	// Params is the ordered parameter schema.
	Params Schema
}

// Title is the name announced in the "Starting ..." message. Production
// tools carry a "production" suffix and, where the toolbox offers several
// variants of one executable, the variant in brackets:
// "las2lasPro_project" starts as "las2las (project) production".
func (t *Tool) Title() string {
	i := strings.Index(t.Name, "Pro")
	if i < 0 {
		return t.Exe
	}
	if variant := strings.TrimPrefix(t.Name[i+len("Pro"):], "_"); variant != "" {
		return t.Exe + " (" + variant + ") production"
	}
	return t.Exe + " production"
}

// Invocation is one parsed run of a tool: named, validated values and
// the verbose flag.
type Invocation struct {
	Tool    *Tool
	Values  model.Values
	Verbose bool
}

// Parse reads the dialog argument vector.
func (t *Tool) Parse(args []string) (*Invocation, error) {
	values, verbose, err := t.Params.Parse(args)
	if err != nil {
		return nil, err
	}
	return &Invocation{Tool: t, Values: values, Verbose: verbose}, nil
}

// FromMap builds an invocation from named values.
func (t *Tool) FromMap(m map[string]string, verbose bool) (*Invocation, error) {
	values, err := t.Params.FromMap(m)
	if err != nil {
		return nil, err
	}
	return &Invocation{Tool: t, Values: values, Verbose: verbose}, nil
}

// Build produces the command line for exePath. "-v" directly follows
// the executable when verbose output was requested.
func (inv *Invocation) Build(exePath string) (*model.Command, error) {
	cmd := model.NewCommand(exePath)
	if inv.Verbose {
		cmd.Append(model.Flag("-v"))
	}

	tokens, err := inv.Tool.Params.Emit(inv.Values)
	if err != nil {
		return nil, err
	}
	cmd.Append(tokens...)

	return cmd, nil
}

var (
	registryOnce sync.Once
	registry     map[string]*Tool
)

// catalog lists every tool of the toolbox.
func catalog() []*Tool {
	tools := make([]*Tool, 0, 40)
	tools = append(tools, singleTools()...)
	tools = append(tools, productionTools()...)
	return tools
}

func loadRegistry() {
	registry = make(map[string]*Tool)
	for _, t := range catalog() {
		registry[t.Name] = t
	}
}

// Lookup returns the tool with the given toolbox name.
func Lookup(name string) (*Tool, bool) {
	registryOnce.Do(loadRegistry)
	t, ok := registry[name]
	return t, ok
}

// All returns every tool sorted by name.
func All() []*Tool {
	registryOnce.Do(loadRegistry)
	tools := make([]*Tool, 0, len(registry))
	for _, t := range registry {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}
