// Package logging provides the shared structured logger for plotpic.
//
// All components derive their logger from one base [slog.Logger] that writes
// text records to stderr, so log output never mixes with the terminal picture
// drawn on stdout. The level is read once from PLOTPIC_LOG_LEVEL (debug, info,
// warn, error); anything else means info.
//
//	log := logging.New("viewport")
//	log.Debug("outer viewport set", "x1", r.X1, "x2", r.X2)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const levelEnv = "PLOTPIC_LOG_LEVEL"

var (
	initLogger sync.Once
	baseLogger *slog.Logger
)

// New returns a logger tagged with component=<component>. An empty component
// returns the base logger.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		baseLogger = newBase(os.Stderr, os.Getenv(levelEnv))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

func newBase(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
