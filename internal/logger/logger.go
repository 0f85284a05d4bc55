// Package logger builds the process-wide zerolog logger from configuration.
package logger

import (
	"io"
	"os"

	"github.com/garnizeh/zelar/internal/config"
	"github.com/rs/zerolog"
)

// New returns a leveled logger writing to w (stdout when nil).
// Format "console" produces human-readable output; anything else emits JSON.
func New(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "zelar").Logger()
}
