package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shinji-kodama/lastools-toolbox/internal/docker"
	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Docker runs commands inside containers created from a LAStools image.
//
// Command paths are paths inside the image (see locator.NewContainer).
// Data paths in the arguments must be valid inside the container, which
// Binds arranges. Temp-file cleanup runs on the host through Local, since
// the temp directory is a bind-mounted host directory.
type Docker struct {
	api  docker.ContainerAPI
	opts DockerOptions
	host *Local
}

// DockerOptions configures the containers the Docker dispatcher creates.
type DockerOptions struct {
	// Image carries the LAStools binaries.
	Image string

	// Entrypoint runs the executable, e.g. ["wine"] for the Windows build.
	Entrypoint []string

	// Binds are host:container bind mounts for the data directories.
	// Every mount must use the same path on both sides. Temp directories
	// are checked and cleaned on the host, while the tools in the
	// container receive the very same path strings; config.Validate
	// rejects any other mapping.
	Binds []string

	// WorkDir is the working directory inside the container.
	WorkDir string

	// Run names the tool or pipeline, recorded in the lastools.run label.
	Run string
}

// NewDocker creates a Docker dispatcher. host runs the cleanup dispatch.
func NewDocker(api docker.ContainerAPI, opts DockerOptions, host *Local) *Docker {
	if host == nil {
		host = NewLocal("")
	}
	return &Docker{api: api, opts: opts, host: host}
}

// Dispatch runs cmd in a fresh container and removes it afterwards.
func (d *Docker) Dispatch(ctx context.Context, cmd *model.Command) (*model.Result, error) {
	if cmd.IsCleanup() {
		return d.host.Dispatch(ctx, cmd)
	}

	tool := docker.ToolName(cmd.Path)
	log.Debug().Str("image", d.opts.Image).Str("tool", tool).Strs("args", cmd.Argv()).Msg("starting container")

	res, err := docker.RunContainer(ctx, d.api, docker.RunSpec{
		Image:      d.opts.Image,
		Entrypoint: d.opts.Entrypoint,
		Cmd:        cmd.Values(),
		Binds:      d.opts.Binds,
		WorkDir:    d.opts.WorkDir,
		Labels: docker.BuildLabels(docker.RunInfo{
			Tool:      tool,
			Run:       d.opts.Run,
			CreatedAt: time.Now(),
		}),
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("tool", tool).Int("exit_code", res.ExitCode).Msg("container finished")
	return res, nil
}
