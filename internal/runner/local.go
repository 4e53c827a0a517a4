package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Local runs commands as child processes of the CLI.
type Local struct {
	// Dir is the working directory of the child processes. Empty means
	// the working directory of the CLI, which is where relative output
	// names such as "temp_huge_remove_duplicates.laz" end up.
	Dir string
}

// NewLocal creates a Local dispatcher running in dir.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir}
}

// Dispatch runs cmd and blocks until it exits.
//
// stdout and stderr share one buffer, so the output reads in the order
// the tool wrote it. The cleanup dispatch is handled by RemoveMatching.
func (l *Local) Dispatch(ctx context.Context, cmd *model.Command) (*model.Result, error) {
	if cmd.IsCleanup() {
		return cleanup(cmd, l.Dir)
	}

	log.Debug().Str("path", cmd.Path).Strs("args", cmd.Argv()).Msg("starting process")

	// #nosec G204 -- the command line is built from the tool catalog
	c := exec.CommandContext(ctx, cmd.Path, cmd.Argv()...)
	c.Dir = l.Dir

	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out

	err := c.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			// Either the process never started, or it was killed because
			// the run was cancelled. Neither has a meaningful exit status.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, model.SubprocessError("failed to run %s", cmd.Path).WithErr(err)
		}
		log.Debug().Str("path", cmd.Path).Int("exit_code", exitErr.ExitCode()).Msg("process failed")
		return &model.Result{ExitCode: exitErr.ExitCode(), Output: out.String()}, nil
	}

	log.Debug().Str("path", cmd.Path).Msg("process finished")
	return &model.Result{ExitCode: 0, Output: out.String()}, nil
}
