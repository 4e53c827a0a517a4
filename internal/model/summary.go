package model

// StageResult records one dispatched command of a run. Single tools have
// exactly one stage, named after the tool.
type StageResult struct {
	// Stage is the stage name as reported, e.g. "las2dem (DTM)".
	Stage string `json:"stage"`

	// Command is the echoed command line.
	Command string `json:"command"`

	// ExitCode is the exit status of the command.
	ExitCode int `json:"exitCode"`
}

// RunSummary is the machine-readable outcome of a tool or pipeline run,
// printed by the --json output mode.
type RunSummary struct {
	// Name is the tool or pipeline name.
	Name string `json:"name"`

	// Stages lists the commands that were dispatched, in order. Stages
	// after a failed one are absent because they never ran.
	Stages []StageResult `json:"stages"`

	// Success is true when every stage, including cleanup, exited zero.
	Success bool `json:"success"`
}

// NewRunSummary creates an empty summary for name.
func NewRunSummary(name string) *RunSummary {
	return &RunSummary{Name: name, Stages: []StageResult{}}
}

// Record appends the outcome of one dispatched command.
func (s *RunSummary) Record(stage string, cmd *Command, res *Result) {
	s.Stages = append(s.Stages, StageResult{
		Stage:    stage,
		Command:  cmd.String(),
		ExitCode: res.ExitCode,
	})
}
