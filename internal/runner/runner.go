package runner

import (
	"context"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Dispatcher runs one command to completion.
//
// A process that started and exited non-zero is reported through the
// Result, never as an error. The error return is reserved for commands
// that could not be run at all: a binary that cannot be executed, an
// unreachable Docker daemon, a cancelled context.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd *model.Command) (*model.Result, error)
}
