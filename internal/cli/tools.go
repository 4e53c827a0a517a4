// tools.go implements the "lastools-toolbox tools" command.
//
// The tools command lists every single tool and pipeline the CLI can run,
// with the executables it needs and the number of positional arguments it
// expects. An optional --kind flag restricts the listing.

package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/pipeline"
	"github.com/shinji-kodama/lastools-toolbox/internal/toolbox"
)

// Entry kinds.
const (
	kindTool     = "tool"
	kindPipeline = "pipeline"
	kindAll      = "all"
)

// toolsFlags holds the flag values for the tools command.
type toolsFlags struct {
	// kind filters the listing: "tool", "pipeline" or "all" (default).
	kind string
}

// NewToolsCommand creates the "tools" cobra command.
func NewToolsCommand() *cobra.Command {
	flags := &toolsFlags{}

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools and pipelines",
		Long: `List the single tools and pipelines that can be run.

Examples:
  lastools-toolbox tools
  lastools-toolbox tools --kind pipeline
  lastools-toolbox tools --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.kind, "kind", kindAll,
		"Filter by kind: tool, pipeline, all")

	return cmd
}

// toolEntryJSON is the JSON output structure for one tool or pipeline.
type toolEntryJSON struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Executables []string `json:"executables"`
	Arguments   int      `json:"arguments"`
	Summary     string   `json:"summary"`
}

// runTools is the main logic function for the tools command.
func runTools(w io.Writer, flags *toolsFlags) error {
	// Step 1: Validate the --kind flag value.
	switch flags.kind {
	case kindTool, kindPipeline, kindAll:
	default:
		return model.ArgumentError("invalid kind filter %q: valid values are tool, pipeline, all", flags.kind)
	}

	// Step 2: Collect the entries.
	entries := make([]toolEntryJSON, 0)
	if flags.kind != kindPipeline {
		for _, t := range toolbox.All() {
			entries = append(entries, toolEntryJSON{
				Name:        t.Name,
				Kind:        kindTool,
				Executables: []string{t.Exe},
				Arguments:   t.Params.ArgCount(),
				Summary:     t.Summary,
			})
		}
	}
	if flags.kind != kindTool {
		for _, d := range pipeline.All() {
			entries = append(entries, toolEntryJSON{
				Name:        d.Name,
				Kind:        kindPipeline,
				Executables: d.Tools(),
				Arguments:   d.Params.ArgCount(),
				Summary:     d.Summary,
			})
		}
	}

	// Step 3: Output.
	if IsJSONOutput() {
		return printJSON(w, struct {
			Tools []toolEntryJSON `json:"tools"`
		}{Tools: entries})
	}
	printToolsText(w, entries)
	return nil
}

// printToolsText outputs the entries as a text table with aligned columns.
//
// The table format is:
//
//	NAME                                KIND      ARGS  EXECUTABLES
//	las2dem                             tool      23    las2dem
//	flightlines_to_CHM                  pipeline  15    lastile,lasground,...
func printToolsText(w io.Writer, entries []toolEntryJSON) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No tools found.")
		return
	}

	fmt.Fprintf(w, "%-36s %-9s %-5s %s\n", "NAME", "KIND", "ARGS", "EXECUTABLES")
	for _, e := range entries {
		fmt.Fprintf(w, "%-36s %-9s %-5d %s\n",
			e.Name,
			e.Kind,
			e.Arguments,
			FormatExecutables(e.Executables),
		)
	}
}

// FormatExecutables joins executable names in sorted order, or returns
// "-" for none.
//
// Example:
//
//	["lasground", "lastile", "las2dem"] → "las2dem,lasground,lastile"
//	[]                                  → "-"
func FormatExecutables(exes []string) string {
	if len(exes) == 0 {
		return "-"
	}
	sorted := append([]string(nil), exes...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
