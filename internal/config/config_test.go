package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// clearEnv unsets every variable Load reads, so the developer's shell
// does not leak into the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfig, EnvHome, EnvRuntime, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

// fakeExecutable returns the path of a (non-existent) binary in a fresh
// directory, next to which config files can be placed.
func fakeExecutable(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "lastools-toolbox.exe")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, path, err := Load("", fakeExecutable(t))
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ".exe", cfg.ExecutableSuffix)
	assert.Equal(t, RuntimeLocal, cfg.Runtime)
	assert.Equal(t, []string{"wine"}, cfg.Docker.Entrypoint)
}

func TestLoad_YAMLNextToExecutable(t *testing.T) {
	clearEnv(t)
	exe := fakeExecutable(t)
	file := filepath.Join(filepath.Dir(exe), "lastools-toolbox.yaml")
	writeFile(t, file, `
lastools_path: /opt/lastools
executable_suffix: ""
runtime: docker
cleanup_on_failure: true
docker:
  image: rapidlasso/lastools:latest
  binds:
    - /srv/lidar:/srv/lidar:ro
  workdir: /srv/lidar
`)

	cfg, path, err := Load("", exe)
	require.NoError(t, err)
	assert.Equal(t, file, path)

	assert.Equal(t, "/opt/lastools", cfg.LastoolsPath)
	assert.Equal(t, "", cfg.ExecutableSuffix, "an explicit empty suffix overrides .exe")
	assert.Equal(t, RuntimeDocker, cfg.Runtime)
	assert.True(t, cfg.CleanupOnFailure)
	assert.Equal(t, "rapidlasso/lastools:latest", cfg.Docker.Image)
	assert.Equal(t, []string{"/srv/lidar:/srv/lidar:ro"}, cfg.Docker.Binds)
	assert.Equal(t, "/opt/lastools/bin", cfg.Docker.BinDir, "keys absent from the file keep their defaults")
	assert.Equal(t, []string{"wine"}, cfg.Docker.Entrypoint)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_TOMLFromFlag(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "site.toml")
	writeFile(t, file, `
log_level = "debug"

[docker]
image = "lastools:2.0"
entrypoint = []
bin_dir = "/usr/local/lastools/bin"
`)

	cfg, path, err := Load(file, fakeExecutable(t))
	require.NoError(t, err)
	assert.Equal(t, file, path)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "lastools:2.0", cfg.Docker.Image)
	assert.Empty(t, cfg.Docker.Entrypoint)
	assert.Equal(t, "/usr/local/lastools/bin", cfg.Docker.BinDir)
	assert.Equal(t, RuntimeLocal, cfg.Runtime)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "site.yml")
	writeFile(t, file, "lastools_path: /from/file\nlog_level: warn\ndocker:\n  image: lastools\n")

	t.Setenv(EnvConfig, file)
	t.Setenv(EnvHome, "/from/env")
	t.Setenv(EnvRuntime, "Docker")
	t.Setenv(EnvLogLevel, "error")

	cfg, path, err := Load("", fakeExecutable(t))
	require.NoError(t, err)
	assert.Equal(t, file, path, "the environment names the file")
	assert.Equal(t, "/from/env", cfg.LastoolsPath)
	assert.Equal(t, RuntimeDocker, cfg.Runtime)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.KindConfig, cliErr.Kind)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad yaml", "c.yaml", "runtime: [local", "parse YAML"},
		{"bad toml", "c.toml", "runtime = ", "parse TOML"},
		{"unknown extension", "c.json", "{}", "unsupported config format"},
		{"unknown runtime", "c.yaml", "runtime: podman", `unknown runtime "podman"`},
		{"docker without image", "c.yaml", "runtime: docker", "requires docker.image"},
		{"unknown log level", "c.yaml", "log_level: chatty", `unknown log level "chatty"`},
		{"bind to another path", "c.yaml", "runtime: docker\ndocker:\n  image: lastools\n  binds: [\"/srv/lidar:/data\"]", "host and container paths must be identical"},
		{"bind without container path", "c.yaml", "runtime: docker\ndocker:\n  image: lastools\n  binds: [\"/srv/lidar\"]", "not of the form host:container"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			file := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, file, tt.content)

			_, _, err := Load(file, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiscover_Order(t *testing.T) {
	clearEnv(t)
	exe := fakeExecutable(t)
	dir := filepath.Dir(exe)
	writeFile(t, filepath.Join(dir, "lastools-toolbox.toml"), "")
	writeFile(t, filepath.Join(dir, "lastools-toolbox.yml"), "")

	path, explicit := Discover("", exe)
	assert.Equal(t, filepath.Join(dir, "lastools-toolbox.yml"), path, ".yml is preferred over .toml")
	assert.False(t, explicit)

	t.Setenv(EnvConfig, "/etc/lastools-toolbox.yaml")
	path, explicit = Discover("", exe)
	assert.Equal(t, "/etc/lastools-toolbox.yaml", path)
	assert.True(t, explicit)

	path, _ = Discover("flag.yaml", exe)
	assert.Equal(t, "flag.yaml", path)
}

func TestCheckBind(t *testing.T) {
	tests := []struct {
		bind    string
		wantErr bool
	}{
		{"/srv/lidar:/srv/lidar", false},
		{"/srv/lidar:/srv/lidar:ro", false},
		{"/srv/lidar/:/srv/lidar", false},
		{`C:\data:C:\data`, false},
		{`C:\data:/C:/data`, true},
		{"/srv/lidar:/data", true},
		{"/srv/lidar:/data:rw", true},
		{"/srv/lidar", true},
	}

	for _, tt := range tests {
		t.Run(tt.bind, func(t *testing.T) {
			err := checkBind(tt.bind)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
