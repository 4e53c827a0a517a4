package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/toolbox"
)

// runFlags holds the command-specific flags for the run subcommand.
type runFlags struct {
	// params is a JSONC file holding the arguments by parameter name,
	// used instead of the positional vector.
	params string

	// dryRun echoes the command line without executing it.
	dryRun bool
}

// NewRunCommand creates the "run" subcommand, which wraps one LAStools
// executable.
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [flags] <tool> [arguments...]",
		Short: "Run a single LAStools tool",
		Long: `Run a single LAStools tool with toolbox-style positional arguments.

Arguments follow the toolbox dialog order; "#" leaves a parameter unset and
the last argument is "true" or "false" for verbose output. See
"lastools-toolbox describe <tool>" for the parameter list of a tool.

Examples:
  lastools-toolbox run las2dem C:\data\in.laz 1 "#" ... false
  lastools-toolbox run --params dem.jsonc las2dem`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTool(cmd, flags, args[0], args[1:])
		},
	}

	// Flags end at the tool name; everything after it belongs to the
	// tool, including values such as "-keep_class 2".
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&flags.params, "params", "", "JSONC file with named arguments instead of positional ones")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Echo the command line without running it")

	return cmd
}

// runTool contains the main logic for the run command.
//
// Steps:
//  1. Look up the tool.
//  2. Set up configuration, logging and messages.
//  3. Locate the executable.
//  4. Parse the arguments and build the command line.
//  5. Dispatch it and report the outcome.
func runTool(cmd *cobra.Command, flags *runFlags, name string, args []string) error {
	// Step 1: Unknown names fail before anything is printed.
	tool, ok := toolbox.Lookup(name)
	if !ok {
		return model.ArgumentError("unknown tool %q (see \"lastools-toolbox tools\")", name)
	}

	// Step 2: Environment.
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	rep := s.reporter
	rep.Starting(tool.Title())

	// Step 3: Executable.
	loc, err := s.locator()
	if err != nil {
		return err
	}
	exePath, err := loc.Executable(tool.Exe)
	if err != nil {
		return err
	}

	// Step 4: Command line.
	inv, err := toolInvocation(tool, flags.params, args)
	if err != nil {
		return err
	}
	command, err := inv.Build(exePath)
	if err != nil {
		return err
	}

	// Step 5: Dispatch.
	dispatcher, release, err := s.dispatcher(cmd.Context(), flags.dryRun, tool.Name)
	defer release()
	if err != nil {
		return err
	}

	summary := model.NewRunSummary(tool.Name)
	rep.CommandLine(command)
	VerboseLog("dispatching %s", tool.Exe)
	res, err := dispatcher.Dispatch(cmd.Context(), command)
	if err != nil {
		return err
	}
	rep.Output(res)
	summary.Record(tool.Exe, command, res)

	var failure error
	if res.Success() {
		rep.Success(tool.Exe)
		summary.Success = true
	} else {
		failure = rep.Failed(tool.Exe)
	}

	if IsJSONOutput() {
		if err := printJSON(s.out, summary); err != nil {
			return err
		}
	}
	return failure
}

// toolInvocation parses either the positional vector or the parameter
// file, never both.
func toolInvocation(tool *toolbox.Tool, paramsPath string, args []string) (*toolbox.Invocation, error) {
	if paramsPath == "" {
		return tool.Parse(args)
	}
	if len(args) > 0 {
		return nil, model.ArgumentError("--params cannot be combined with positional arguments (got %d)", len(args))
	}
	pf, err := toolbox.LoadParams(paramsPath)
	if err != nil {
		return nil, err
	}
	return pf.Invocation(tool)
}
