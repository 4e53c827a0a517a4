package runner

import (
	"context"
	"sync"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// DryRun records commands instead of running them. Every command
// "succeeds" with empty output, so a pipeline walks through all of its
// stages and the echoed command lines can be reviewed.
type DryRun struct {
	mu       sync.Mutex
	commands []*model.Command
}

// Dispatch records cmd.
func (d *DryRun) Dispatch(_ context.Context, cmd *model.Command) (*model.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = append(d.commands, cmd)
	return &model.Result{}, nil
}

// Commands returns the recorded commands in dispatch order.
func (d *DryRun) Commands() []*model.Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*model.Command(nil), d.commands...)
}
