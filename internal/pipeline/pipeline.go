package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/report"
	"github.com/shinji-kodama/lastools-toolbox/internal/runner"
	"github.com/shinji-kodama/lastools-toolbox/internal/toolbox"
)

// cleanupStage is the stage name reported for the temp-file cleanup.
const cleanupStage = "clean-up"

// Stage is one LAStools invocation of a pipeline.
type Stage struct {
	// Name is reported in "<name> step done." and in failure messages.
	Name string

	// Tool is the executable the stage runs, without suffix.
	Tool string

	// Args builds the arguments following the executable (and -v).
	Args toolbox.EmitFunc

	// Final stages report a failure as "Error. <name> failed." without
	// the pipeline name, like a single tool would.
	Final bool
}

// Definition describes one pipeline.
type Definition struct {
	// Name is the toolbox name, used on the command line.
	Name string

	// Title is the name used in progress messages. It differs from Name
	// for pipelines that were renamed in the toolbox.
	Title string

	// Summary is a one-line description for the tools listing.
	Summary string

	// Params is the positional argument schema.
	Params toolbox.Schema

	// TempDir names the parameter holding the empty temp directory, or
	// is empty when the pipeline writes no temp files.
	TempDir string

	// RequireTempDir rejects an Unset temp directory. Otherwise Unset
	// means the temp files go to the working directory.
	RequireTempDir bool

	// Stages run in order.
	Stages []Stage

	// Cleanup returns the glob of the temp files to delete at the end.
	// Nil means the pipeline leaves nothing behind.
	Cleanup func(v model.Values) string
}

// Tools returns the distinct executables the pipeline needs, in stage
// order.
func (d *Definition) Tools() []string {
	seen := make(map[string]bool)
	var tools []string
	for _, s := range d.Stages {
		if !seen[s.Tool] {
			seen[s.Tool] = true
			tools = append(tools, s.Tool)
		}
	}
	return tools
}

// Describe returns the parameter schema of the pipeline.
func (d *Definition) Describe() *toolbox.Description {
	return toolbox.Describe(d.Name, d.Summary, d.Tools(), d.Params)
}

// Invocation is one parsed run of a pipeline.
type Invocation struct {
	Definition *Definition
	Values     model.Values
	Verbose    bool
}

// Parse reads the dialog argument vector.
func (d *Definition) Parse(args []string) (*Invocation, error) {
	values, verbose, err := d.Params.Parse(args)
	if err != nil {
		return nil, err
	}
	return &Invocation{Definition: d, Values: values, Verbose: verbose}, nil
}

// FromMap builds an invocation from named values, as read from a
// parameter file.
func (d *Definition) FromMap(m map[string]string, verbose bool) (*Invocation, error) {
	values, err := d.Params.FromMap(m)
	if err != nil {
		return nil, err
	}
	return &Invocation{Definition: d, Values: values, Verbose: verbose}, nil
}

// Resolver locates executables. *locator.Locator implements it.
type Resolver interface {
	Executables(tools ...string) (map[string]string, error)
}

// Orchestrator runs pipelines.
type Orchestrator struct {
	resolver   Resolver
	dispatcher runner.Dispatcher
	reporter   *report.Reporter

	// cleanupOnFailure also deletes temp files after a failed stage.
	cleanupOnFailure bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCleanupOnFailure makes a failed run attempt the temp-file cleanup
// before it returns. The cleanup result is reported but never changes
// the outcome.
func WithCleanupOnFailure(enabled bool) Option {
	return func(o *Orchestrator) {
		o.cleanupOnFailure = enabled
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(resolver Resolver, dispatcher runner.Dispatcher, reporter *report.Reporter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:   resolver,
		dispatcher: dispatcher,
		reporter:   reporter,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes inv.
//
// Steps:
//  1. Locate every executable, so a missing one fails before anything runs.
//  2. Check the temp directory exists and is empty.
//  3. Run the stages in order, aborting on the first non-zero exit.
//  4. Delete the temp files.
//
// The returned summary lists every command that was dispatched, also
// when an error is returned.
func (o *Orchestrator) Run(ctx context.Context, inv *Invocation) (*model.RunSummary, error) {
	def := inv.Definition
	summary := model.NewRunSummary(def.Name)

	// Step 1: Every executable up front.
	paths, err := o.resolver.Executables(def.Tools()...)
	if err != nil {
		return summary, err
	}

	// Step 2: The temp directory.
	if def.TempDir != "" {
		err := CheckTempDir(inv.Values.Get(def.TempDir), def.RequireTempDir, o.reporter.Messenger())
		if err != nil {
			return summary, err
		}
	}

	// Step 3: The stages.
	for _, stage := range def.Stages {
		cmd := model.NewCommand(paths[stage.Tool])
		if inv.Verbose {
			cmd.Append(model.Flag("-v"))
		}
		tokens, err := stage.Args(inv.Values)
		if err != nil {
			return summary, err
		}
		cmd.Append(tokens...)

		res, err := o.dispatch(ctx, summary, stage.Name, cmd)
		if err != nil {
			return summary, err
		}
		if !res.Success() {
			log.Debug().Str("pipeline", def.Name).Str("stage", stage.Name).Int("exit_code", res.ExitCode).Msg("stage failed")
			var failure *model.CLIError
			if stage.Final {
				failure = o.reporter.Failed(stage.Name)
			} else {
				failure = o.reporter.StageFailed(def.Title, stage.Name)
			}
			if o.cleanupOnFailure {
				o.bestEffortCleanup(ctx, inv, summary)
			}
			return summary, failure
		}
		o.reporter.StageDone(stage.Name)
	}

	// Step 4: The temp files.
	if pattern := o.cleanupPattern(inv); pattern != "" {
		cmd := model.NewCommand(model.CleanupProgram, cleanupToken(pattern))
		res, err := o.dispatch(ctx, summary, cleanupStage, cmd)
		if err != nil {
			return summary, err
		}
		if !res.Success() {
			return summary, o.reporter.StageFailed(def.Title, cleanupStage)
		}
		o.reporter.StageDone(cleanupStage)
	}

	o.reporter.Success(def.Title)
	summary.Success = true
	return summary, nil
}

// dispatch echoes, runs and records one command and relays its output.
func (o *Orchestrator) dispatch(ctx context.Context, summary *model.RunSummary, stage string, cmd *model.Command) (*model.Result, error) {
	o.reporter.CommandLine(cmd)
	res, err := o.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		return nil, err
	}
	o.reporter.Output(res)
	summary.Record(stage, cmd, res)
	return res, nil
}

// bestEffortCleanup deletes temp files after a failure. Its outcome is
// reported and recorded but otherwise ignored.
func (o *Orchestrator) bestEffortCleanup(ctx context.Context, inv *Invocation, summary *model.RunSummary) {
	pattern := o.cleanupPattern(inv)
	if pattern == "" {
		return
	}
	cmd := model.NewCommand(model.CleanupProgram, cleanupToken(pattern))
	if _, err := o.dispatch(ctx, summary, cleanupStage, cmd); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("clean-up after failure did not run")
	}
}

func (o *Orchestrator) cleanupPattern(inv *Invocation) string {
	if inv.Definition.Cleanup == nil {
		return ""
	}
	return inv.Definition.Cleanup(inv.Values)
}

// cleanupToken quotes the glob in the echo unless it is a bare file name.
func cleanupToken(pattern string) model.Token {
	if strings.ContainsAny(pattern, `/\`) {
		return model.Path(pattern)
	}
	return model.Flag(pattern)
}

var (
	registryOnce sync.Once
	registry     map[string]*Definition
)

func loadRegistry() {
	registry = make(map[string]*Definition)
	for _, d := range definitions() {
		registry[d.Name] = d
	}
}

// Lookup returns the pipeline with the given name.
func Lookup(name string) (*Definition, bool) {
	registryOnce.Do(loadRegistry)
	d, ok := registry[name]
	return d, ok
}

// All returns every pipeline sorted by name.
func All() []*Definition {
	registryOnce.Do(loadRegistry)
	defs := make([]*Definition, 0, len(registry))
	for _, d := range registry {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})
	return defs
}
