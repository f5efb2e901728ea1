// Package logging builds the run logger: slog with a tint console handler,
// every record tagged with the run id.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

type Config struct {
	// Writer defaults to os.Stderr so stdout carries only the report.
	Writer    io.Writer
	Level     slog.Leveler
	AddSource bool
	IsJSON    bool
	NoColor   bool
}

// NewRunID returns a fresh identifier for one invocation.
func NewRunID() string { return uuid.NewString() }

// New returns a logger carrying run_id on every record.
func New(cfg Config, runID string) *slog.Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.IsJSON {
		handler = slog.NewJSONHandler(cfg.Writer, &slog.HandlerOptions{AddSource: cfg.AddSource, Level: cfg.Level})
	} else {
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
		})
	}
	return slog.New(handler).With(slog.String("run_id", runID))
}
