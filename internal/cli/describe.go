package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/pipeline"
	"github.com/shinji-kodama/lastools-toolbox/internal/toolbox"
)

// NewDescribeCommand creates the "describe" cobra command, which prints
// the positional parameter list of a tool or pipeline.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name>",
		Short: "Show the parameters of a tool or pipeline",
		Long: `Show the positional parameters of a tool or pipeline, in dialog order,
with their defaults. The output is YAML, or JSON with --json.

The parameter names are also the keys of a --params file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := describe(args[0])
			if err != nil {
				return err
			}

			var out []byte
			if IsJSONOutput() {
				out, err = d.JSON()
			} else {
				out, err = d.YAML()
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			if IsJSONOutput() {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

// describe looks name up among the tools first, then the pipelines.
func describe(name string) (*toolbox.Description, error) {
	if t, ok := toolbox.Lookup(name); ok {
		return t.Describe(), nil
	}
	if d, ok := pipeline.Lookup(name); ok {
		return d.Describe(), nil
	}
	return nil, model.ArgumentError("unknown tool or pipeline %q", name)
}
