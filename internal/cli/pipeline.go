package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/pipeline"
	"github.com/shinji-kodama/lastools-toolbox/internal/toolbox"
)

// NewPipelineCommand creates the "pipeline" subcommand, which runs one of
// the multi-stage processing pipelines.
func NewPipelineCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "pipeline [flags] <name> [arguments...]",
		Short: "Run a multi-stage LAStools pipeline",
		Long: `Run a multi-stage LAStools pipeline.

A pipeline chains several LAStools executables through an empty temp
directory, stops at the first failing stage and deletes its temp files
when all stages succeeded. Arguments follow the same conventions as
"lastools-toolbox run".

Examples:
  lastools-toolbox pipeline flightlines_to_CHM C:\flightlines 1000 ... false
  lastools-toolbox pipeline --dry-run --params chm.jsonc flightlines_to_CHM`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, flags, args[0], args[1:])
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&flags.params, "params", "", "JSONC file with named arguments instead of positional ones")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Echo the command lines without running them")

	return cmd
}

// runPipeline contains the main logic for the pipeline command.
//
// Steps:
//  1. Look up the pipeline definition.
//  2. Set up configuration, logging and messages.
//  3. Parse the arguments.
//  4. Hand everything to the orchestrator.
func runPipeline(cmd *cobra.Command, flags *runFlags, name string, args []string) error {
	// Step 1: Definition.
	def, ok := pipeline.Lookup(name)
	if !ok {
		return model.ArgumentError("unknown pipeline %q (see \"lastools-toolbox tools\")", name)
	}

	// Step 2: Environment.
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	s.reporter.Starting(def.Title)

	// Step 3: Arguments, before the locator reports any executable.
	inv, err := pipelineInvocation(def, flags.params, args)
	if err != nil {
		return err
	}

	// Step 4: Stages.
	loc, err := s.locator()
	if err != nil {
		return err
	}

	dispatcher, release, err := s.dispatcher(cmd.Context(), flags.dryRun, def.Name)
	defer release()
	if err != nil {
		return err
	}

	orchestrator := pipeline.NewOrchestrator(loc, dispatcher, s.reporter,
		pipeline.WithCleanupOnFailure(s.cfg.CleanupOnFailure))
	summary, runErr := orchestrator.Run(cmd.Context(), inv)

	if IsJSONOutput() {
		if err := printJSON(s.out, summary); err != nil {
			return err
		}
	}
	return runErr
}

// pipelineInvocation parses either the positional vector or the
// parameter file, never both.
func pipelineInvocation(def *pipeline.Definition, paramsPath string, args []string) (*pipeline.Invocation, error) {
	if paramsPath == "" {
		return def.Parse(args)
	}
	if len(args) > 0 {
		return nil, model.ArgumentError("--params cannot be combined with positional arguments (got %d)", len(args))
	}
	pf, err := toolbox.LoadParams(paramsPath)
	if err != nil {
		return nil, err
	}
	return def.FromMap(pf.Values, pf.Verbose)
}
