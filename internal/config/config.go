// Package config loads the optional configuration file of the CLI.
//
// Everything has a built-in default, so a plain ArcGIS installation
// needs no file at all: the LAStools root is derived from the location of
// the executable and tools run locally. The file exists for the cases
// the toolbox dialogs cannot express, such as a relocated install, a
// native Linux build without the .exe suffix, or running the tools in a
// container.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/lastools-toolbox/internal/logging"
	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// Environment variables read by Load.
const (
	EnvConfig   = "LASTOOLS_TOOLBOX_CONFIG"
	EnvHome     = "LASTOOLS_HOME"
	EnvRuntime  = "LASTOOLS_TOOLBOX_RUNTIME"
	EnvLogLevel = "LASTOOLS_TOOLBOX_LOG_LEVEL"
)

// BaseName is the file name, without extension, looked for next to the
// executable.
const BaseName = "lastools-toolbox"

// Runtimes.
const (
	RuntimeLocal  = "local"
	RuntimeDocker = "docker"
)

// Config is the merged configuration.
type Config struct {
	// LastoolsPath overrides the install root derived from the location
	// of the executable.
	LastoolsPath string `yaml:"lastools_path" toml:"lastools_path"`

	// ExecutableSuffix is appended to tool names. ".exe" by default;
	// empty for native Linux builds.
	ExecutableSuffix string `yaml:"executable_suffix" toml:"executable_suffix"`

	// Runtime is RuntimeLocal or RuntimeDocker.
	Runtime string `yaml:"runtime" toml:"runtime"`

	// CleanupOnFailure deletes pipeline temp files after a failed stage
	// as well.
	CleanupOnFailure bool `yaml:"cleanup_on_failure" toml:"cleanup_on_failure"`

	// LogLevel is the diagnostic log level name.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	Docker DockerConfig `yaml:"docker" toml:"docker"`
}

// DockerConfig configures the docker runtime.
type DockerConfig struct {
	// Host is the daemon address. Empty means DOCKER_HOST or the
	// platform default socket.
	Host string `yaml:"host" toml:"host"`

	// Image carries the LAStools binaries. Required for the docker runtime.
	Image string `yaml:"image" toml:"image"`

	// BinDir is the LAStools bin directory inside the image.
	BinDir string `yaml:"bin_dir" toml:"bin_dir"`

	// Entrypoint runs the executables, ["wine"] for the Windows build.
	Entrypoint []string `yaml:"entrypoint" toml:"entrypoint"`

	// Binds are host:container[:mode] bind mounts. Each must mount a
	// directory at the same path inside the container: pipeline temp
	// directories are checked and cleaned up on the host but handed to
	// the tools inside the container, so both sides must agree on every
	// path.
	Binds []string `yaml:"binds" toml:"binds"`

	// WorkDir is the working directory inside the container.
	WorkDir string `yaml:"workdir" toml:"workdir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ExecutableSuffix: ".exe",
		Runtime:          RuntimeLocal,
		LogLevel:         "info",
		Docker: DockerConfig{
			BinDir:     "/opt/lastools/bin",
			Entrypoint: []string{"wine"},
		},
	}
}

// Load returns the configuration for a CLI invocation.
//
// Steps:
//  1. Find the file: flagPath, then $LASTOOLS_TOOLBOX_CONFIG, then
//     lastools-toolbox.{yaml,yml,toml} next to executable.
//  2. Decode it over the defaults.
//  3. Apply environment overrides.
//  4. Validate.
//
// The returned path is the file that was read, or "" when none was found.
func Load(flagPath, executable string) (*Config, string, error) {
	cfg := Default()

	// Step 1: Discovery.
	path, explicit := Discover(flagPath, executable)

	// Step 2: Decode.
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			if os.IsNotExist(err) && !explicit {
				path = ""
			} else {
				return nil, "", model.ConfigError("cannot load config file %s", path).WithErr(err)
			}
		}
	}

	// Step 3: Environment.
	applyEnvOverrides(cfg)

	// Step 4: Validation.
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Discover returns the config file to read and whether it was named
// explicitly. A discovered file need not exist; an explicit one must.
func Discover(flagPath, executable string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfig)); env != "" {
		return env, true
	}
	if executable == "" {
		return "", false
	}
	dir := filepath.Dir(executable)
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		candidate := filepath.Join(dir, BaseName+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, false
		}
	}
	return "", false
}

// decodeFile decodes path over cfg. The format follows the extension;
// keys absent from the file keep their current values.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvHome)); v != "" {
		cfg.LastoolsPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRuntime)); v != "" {
		cfg.Runtime = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the values that cannot be checked by decoding.
func (c *Config) Validate() error {
	switch c.Runtime {
	case RuntimeLocal:
	case RuntimeDocker:
		if strings.TrimSpace(c.Docker.Image) == "" {
			return model.ConfigError("docker runtime requires docker.image")
		}
		if strings.TrimSpace(c.Docker.BinDir) == "" {
			return model.ConfigError("docker runtime requires docker.bin_dir")
		}
		for _, bind := range c.Docker.Binds {
			if err := checkBind(bind); err != nil {
				return err
			}
		}
	default:
		return model.ConfigError("unknown runtime %q (use %s or %s)", c.Runtime, RuntimeLocal, RuntimeDocker)
	}

	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return model.ConfigError("unknown log level %q", c.LogLevel)
	}
	return nil
}

// checkBind rejects a bind mount whose container path differs from its
// host path.
func checkBind(bind string) error {
	host, rest := bind, ""
	// Skip a Windows drive letter so "C:" is not taken as the separator.
	offset := 0
	if len(bind) >= 2 && bind[1] == ':' {
		offset = 2
	}
	if i := strings.Index(bind[offset:], ":"); i >= 0 {
		host, rest = bind[:offset+i], bind[offset+i+1:]
	}
	if rest == "" {
		return model.ConfigError("docker.binds entry %q is not of the form host:container", bind)
	}

	// A trailing ":ro" style mode carries no path separator.
	container := rest
	if i := strings.LastIndex(rest, ":"); i >= 0 && !strings.ContainsAny(rest[i+1:], `/\`) {
		container = rest[:i]
	}
	if path.Clean(filepath.ToSlash(host)) != path.Clean(filepath.ToSlash(container)) {
		return model.ConfigError("docker.binds entry %q mounts %s at %s; host and container paths must be identical", bind, host, container)
	}
	return nil
}
