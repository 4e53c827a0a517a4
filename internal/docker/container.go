// container.go implements the container lifecycle of one LAStools
// invocation: create a labelled container from the configured image,
// start it, wait for it to exit, collect its console output and remove
// it again. It also lists and prunes leftover containers.
//
// All managed containers are identified by the "lastools.managed-by"
// label, which separates them from unrelated containers on the same host.

package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// ContainerAPI is the subset of the Docker SDK client used here.
// *client.Client satisfies it; tests substitute a fake.
type ContainerAPI interface {
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// RunSpec describes one containerized LAStools invocation.
type RunSpec struct {
	// Image is the image carrying the LAStools binaries.
	Image string

	// Entrypoint is prepended to Cmd, e.g. ["wine"] for the Windows
	// binaries. Empty keeps the image's entrypoint.
	Entrypoint []string

	// Cmd is the executable path inside the image followed by its
	// arguments.
	Cmd []string

	// Binds are host:container bind mounts for the data directories.
	Binds []string

	// WorkDir is the working directory inside the container.
	WorkDir string

	// Labels are applied to the container (see BuildLabels).
	Labels map[string]string
}

// RunContainer runs spec to completion and returns the exit status and
// the merged stdout/stderr of the process.
//
// The container is always removed afterwards, also when ctx is cancelled
// while waiting. A non-zero exit status is not an error; the error return
// is reserved for failures of the Docker API itself.
func RunContainer(ctx context.Context, api ContainerAPI, spec RunSpec) (*model.Result, error) {
	config := &container.Config{
		Image:        spec.Image,
		Entrypoint:   spec.Entrypoint,
		Cmd:          spec.Cmd,
		WorkingDir:   spec.WorkDir,
		Labels:       spec.Labels,
		AttachStdout: true,
		AttachStderr: true,
	}
	hostConfig := &container.HostConfig{
		Binds: spec.Binds,
	}

	created, err := api.ContainerCreate(ctx, config, hostConfig, nil, nil, "")
	if err != nil {
		return nil, model.ConfigError("failed to create container from image %q", spec.Image).WithErr(err)
	}

	// Removal must outlive a cancelled ctx, otherwise an interrupted run
	// leaves its container behind.
	defer func() {
		_ = api.ContainerRemove(context.Background(), created.ID, container.RemoveOptions{Force: true})
	}()

	// Register the wait before starting so a process that exits at once
	// is not missed.
	statusCh, errCh := api.ContainerWait(ctx, created.ID, container.WaitConditionNextExit)

	if err := api.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, model.ConfigError("failed to start container %q", created.ID).WithErr(err)
	}

	var exitCode int
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("container %q: %s", created.ID, status.Error.Message)
		}
		exitCode = int(status.StatusCode)
	case err := <-errCh:
		return nil, fmt.Errorf("failed waiting for container %q: %w", created.ID, err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	logs, err := api.ContainerLogs(ctx, created.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read logs of container %q: %w", created.ID, err)
	}
	defer logs.Close()

	// Containers without a TTY multiplex stdout and stderr into one
	// stream with 8-byte frame headers; stdcopy strips them. Both go to
	// the same buffer, the way a child process with stderr redirected to
	// stdout would write them.
	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, logs); err != nil {
		return nil, fmt.Errorf("failed to demultiplex logs of container %q: %w", created.ID, err)
	}

	return &model.Result{ExitCode: exitCode, Output: buf.String()}, nil
}

// Leftover is a managed container that still exists.
type Leftover struct {
	ID     string
	Name   string
	State  string
	Status string
	Info   RunInfo
}

// ListManagedContainers returns every container carrying the
// "lastools.managed-by" label, including stopped ones, oldest first.
// Normally there are none; they remain when the CLI was killed while a
// tool was running.
func ListManagedContainers(ctx context.Context, api ContainerAPI) ([]Leftover, error) {
	// Docker filters server-side, which is cheaper than listing every
	// container on the host.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.ConfigError("failed to list Docker containers").WithErr(err)
	}

	result := make([]Leftover, 0, len(containers))
	for _, c := range containers {
		info, err := ParseLabels(c.Labels)
		if err != nil {
			// A container carrying our managed-by label but not the rest
			// was not created by RunContainer; leave it alone.
			continue
		}

		// Docker prefixes container names with "/".
		name := ""
		if len(c.Names) > 0 {
			name = c.Names[0]
			if len(name) > 0 && name[0] == '/' {
				name = name[1:]
			}
		}

		result = append(result, Leftover{
			ID:     c.ID,
			Name:   name,
			State:  string(c.State),
			Status: c.Status,
			Info:   *info,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.CreatedAt.Before(result[j].Info.CreatedAt)
	})
	return result, nil
}

// RemoveContainer force-removes a container by its ID.
func RemoveContainer(ctx context.Context, api ContainerAPI, containerID string) error {
	err := api.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
	if err != nil {
		return model.ConfigError("failed to remove container %q", containerID).WithErr(err)
	}
	return nil
}

// Age returns how long ago the leftover was created, rounded to seconds.
func (l Leftover) Age(now time.Time) time.Duration {
	return now.Sub(l.Info.CreatedAt).Round(time.Second)
}
