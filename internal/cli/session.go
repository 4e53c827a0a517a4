package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lastools-toolbox/internal/config"
	"github.com/shinji-kodama/lastools-toolbox/internal/docker"
	"github.com/shinji-kodama/lastools-toolbox/internal/locator"
	"github.com/shinji-kodama/lastools-toolbox/internal/logging"
	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/report"
	"github.com/shinji-kodama/lastools-toolbox/internal/runner"
)

// connectDocker opens a Docker daemon connection and checks it answers.
// Tests replace it with a fake.
var connectDocker = func(ctx context.Context, host string) (docker.ContainerAPI, func() error, error) {
	c, err := docker.NewClient(host)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, nil, err
	}
	return c.Inner(), c.Close, nil
}

// session is the per-invocation environment shared by the commands that
// run LAStools: configuration, diagnostic logger and message sink.
type session struct {
	cfg        *config.Config
	executable string
	reporter   *report.Reporter
	out        io.Writer
}

// newSession loads the configuration and sets up logging for cmd.
//
// Steps:
//  1. Locate the running binary.
//  2. Load the configuration file and environment overrides.
//  3. Install the diagnostic logger on stderr.
//  4. Pick the message sink: stdout, or stderr in JSON mode so stdout
//     carries only the JSON document.
func newSession(cmd *cobra.Command) (*session, error) {
	// Step 1: The binary location anchors the install root.
	exe, err := executablePath()
	if err != nil {
		return nil, model.ConfigError("failed to determine the executable path").WithErr(err)
	}

	// Step 2: Configuration.
	cfg, path, err := config.Load(configPath, exe)
	if err != nil {
		return nil, err
	}

	// Step 3: Diagnostics.
	level, _ := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = zerolog.DebugLevel
	}
	logging.Init(cmd.ErrOrStderr(), level)
	if path != "" {
		VerboseLog("loaded configuration from %s", path)
	}

	// Step 4: Messages.
	out := cmd.OutOrStdout()
	messages := out
	if jsonOutput {
		messages = cmd.ErrOrStderr()
	}

	return &session{
		cfg:        cfg,
		executable: exe,
		reporter:   report.New(report.NewConsole(messages)),
		out:        out,
	}, nil
}

// locator resolves the LAStools bin directory for the configured runtime.
func (s *session) locator() (*locator.Locator, error) {
	opts := []locator.Option{
		locator.WithSuffix(s.cfg.ExecutableSuffix),
		locator.WithMessenger(s.reporter.Messenger()),
	}

	if s.cfg.Runtime == config.RuntimeDocker {
		VerboseLog("using LAStools inside image %s at %s", s.cfg.Docker.Image, s.cfg.Docker.BinDir)
		return locator.NewContainer(s.cfg.Docker.BinDir, opts...)
	}

	override := lastoolsRoot
	if override == "" {
		override = s.cfg.LastoolsPath
	}
	root := locator.ResolveRoot(override, s.executable)
	VerboseLog("using LAStools root %s", root)
	return locator.New(root, opts...)
}

// dispatcher returns the dispatcher for the configured runtime. run names
// the tool or pipeline for container labels. The returned func releases
// the dispatcher's resources and must always be called.
func (s *session) dispatcher(ctx context.Context, dryRun bool, run string) (runner.Dispatcher, func(), error) {
	noop := func() {}

	if dryRun {
		VerboseLog("dry run: commands are echoed but not executed")
		return &runner.DryRun{}, noop, nil
	}

	if s.cfg.Runtime != config.RuntimeDocker {
		return runner.NewLocal(""), noop, nil
	}

	api, closeFn, err := connectDocker(ctx, s.cfg.Docker.Host)
	if err != nil {
		return nil, noop, err
	}
	d := runner.NewDocker(api, runner.DockerOptions{
		Image:      s.cfg.Docker.Image,
		Entrypoint: s.cfg.Docker.Entrypoint,
		Binds:      s.cfg.Docker.Binds,
		WorkDir:    s.cfg.Docker.WorkDir,
		Run:        run,
	}, runner.NewLocal(""))
	return d, func() { _ = closeFn() }, nil
}
