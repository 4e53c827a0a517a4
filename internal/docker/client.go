package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// pingTimeout bounds the daemon health check. Docker Desktop on macOS
// and Windows can take a few seconds to answer after waking up.
const pingTimeout = 5 * time.Second

// windowsPipe is the named pipe of Docker Desktop on Windows.
const windowsPipe = `//./pipe/docker_engine`

// Client is a connection to the Docker daemon that runs the LAStools
// containers. It wraps the SDK client so that only the calls this module
// needs are visible; Inner exposes the rest for RunContainer.
//
//	c, err := docker.NewClient(cfg.Docker.Host)
//	if err != nil { ... }
//	defer c.Close()
//	if err := c.Ping(ctx); err != nil { ... }
type Client struct {
	inner *client.Client
}

// NewClient connects to the daemon at host. An empty host falls back to
// $DOCKER_HOST and then to the first platform socket that exists
// (see socketCandidates).
func NewClient(host string) (*Client, error) {
	if host == "" {
		host = os.Getenv("DOCKER_HOST")
	}
	if host == "" {
		detected, err := detectHost()
		if err != nil {
			return nil, model.ConfigError("Docker socket not found").WithErr(err)
		}
		host = detected
	}

	// API version negotiation keeps the client usable against older and
	// newer daemons alike.
	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.ConfigError("failed to create Docker client for host %q", host).WithErr(err)
	}
	return &Client{inner: c}, nil
}

// socketCandidates lists the Unix socket paths probed on goos, most
// preferred first. Newer Docker Desktop releases on macOS no longer create
// the /var/run symlink and only serve the per-user socket.
func socketCandidates(goos, home string) []string {
	switch goos {
	case "linux":
		return []string{"/var/run/docker.sock"}
	case "darwin":
		if home == "" {
			return []string{"/var/run/docker.sock"}
		}
		return []string{"/var/run/docker.sock", filepath.Join(home, ".docker", "run", "docker.sock")}
	default:
		return nil
	}
}

// detectHost returns the daemon address for the current platform.
func detectHost() (string, error) {
	if runtime.GOOS == "windows" {
		// Named pipes cannot be stat-ed; a short dial tells whether
		// Docker Desktop is listening.
		conn, err := net.DialTimeout("pipe", windowsPipe, time.Second)
		if err != nil {
			return "", fmt.Errorf("Docker named pipe not found at %s: %w", windowsPipe, err)
		}
		conn.Close()
		return "npipe://" + windowsPipe, nil
	}

	home, _ := os.UserHomeDir()
	paths := socketCandidates(runtime.GOOS, home)
	if paths == nil {
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return firstSocket(paths)
}

// firstSocket returns the unix:// address of the first path that exists.
func firstSocket(paths []string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return "unix://" + p, nil
		}
	}
	return "", fmt.Errorf("Docker socket not found at any of: %v (is Docker running?)", paths)
}

// Ping checks that the daemon answers within pingTimeout. Runs fail here,
// before any command line is echoed as dispatched, when Docker is down.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return model.ConfigError("Docker daemon is not responding (is Docker running?)").WithErr(err)
	}
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (c *Client) Close() error {
	if c.inner == nil {
		return nil
	}
	return c.inner.Close()
}

// Inner returns the SDK client, which satisfies ContainerAPI.
func (c *Client) Inner() *client.Client {
	return c.inner
}
