// Package logging sets up the diagnostic logger.
//
// Diagnostics are separate from the host message log: the messages a
// geoprocessing user sees go through report.Messenger, while zerolog
// writes timestamped debug output to stderr for whoever runs the CLI by
// hand.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// App is the value of the "app" field on every log line.
const App = "lastools-toolbox"

// ParseLevel maps a level name to a zerolog level. The second return is
// false for empty or unknown names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

// Init builds a console logger on w at level and installs it as the
// global zerolog logger, which the rest of the module logs through.
func Init(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", App).Logger()
	log.Logger = logger
	return logger
}
