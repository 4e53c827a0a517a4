package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lastools-toolbox/internal/docker"
	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// stubAPI answers every container with exit status 0 and a fixed log
// line, and remembers the last container config.
type stubAPI struct {
	config  *container.Config
	creates int
}

func (s *stubAPI) ContainerCreate(_ context.Context, config *container.Config, _ *container.HostConfig,
	_ *network.NetworkingConfig, _ *ocispec.Platform, _ string) (container.CreateResponse, error) {
	s.config = config
	s.creates++
	return container.CreateResponse{ID: "feed"}, nil
}

func (s *stubAPI) ContainerStart(context.Context, string, container.StartOptions) error { return nil }

func (s *stubAPI) ContainerWait(context.Context, string, container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	statusCh <- container.WaitResponse{StatusCode: 0}
	return statusCh, make(chan error)
}

func (s *stubAPI) ContainerLogs(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
	var buf bytes.Buffer
	_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte("done\n"))
	return io.NopCloser(&buf), nil
}

func (s *stubAPI) ContainerRemove(context.Context, string, container.RemoveOptions) error { return nil }

func (s *stubAPI) ContainerList(context.Context, container.ListOptions) ([]container.Summary, error) {
	return nil, nil
}

func TestDocker_Dispatch(t *testing.T) {
	api := &stubAPI{}
	d := NewDocker(api, DockerOptions{
		Image:      "lastools:2.0",
		Entrypoint: []string{"wine"},
		Binds:      []string{"/srv/lidar:/srv/lidar"},
		WorkDir:    "/srv/lidar",
		Run:        "flightlines_to_CHM",
	}, nil)

	cmd := model.NewCommand("/opt/lastools/bin/lasheight.exe", model.Flag("-i"), model.Path("/srv/lidar/tiles/tile*_g.laz"))
	res, err := d.Dispatch(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "done\n", res.Output)

	require.NotNil(t, api.config)
	assert.Equal(t, []string{"/opt/lastools/bin/lasheight.exe", "-i", "/srv/lidar/tiles/tile*_g.laz"}, []string(api.config.Cmd))
	assert.Equal(t, "lasheight", api.config.Labels[docker.LabelTool])
	assert.Equal(t, "flightlines_to_CHM", api.config.Labels[docker.LabelRun])
	assert.Equal(t, docker.ManagedByValue, api.config.Labels[docker.LabelManagedBy])
}

// TestDocker_Dispatch_CleanupOnHost verifies that the cleanup dispatch
// never creates a container.
func TestDocker_Dispatch_CleanupOnHost(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "tile_0_0.laz")

	api := &stubAPI{}
	d := NewDocker(api, DockerOptions{Image: "lastools"}, NewLocal(dir))

	res, err := d.Dispatch(context.Background(), model.NewCommand(model.CleanupProgram, model.Path("tile*.laz")))
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Zero(t, api.creates)

	_, statErr := os.Stat(filepath.Join(dir, "tile_0_0.laz"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDryRun(t *testing.T) {
	d := &DryRun{}
	first := model.NewCommand("lastile.exe", model.Flag("-reversible"))
	second := model.NewCommand(model.CleanupProgram, model.Flag("temp*.laz"))

	for _, cmd := range []*model.Command{first, second} {
		res, err := d.Dispatch(context.Background(), cmd)
		require.NoError(t, err)
		assert.True(t, res.Success())
	}

	assert.Equal(t, []*model.Command{first, second}, d.Commands())
}

// Compile-time checks that every dispatcher satisfies the interface.
var (
	_ Dispatcher = (*Local)(nil)
	_ Dispatcher = (*Docker)(nil)
	_ Dispatcher = (*DryRun)(nil)
)
