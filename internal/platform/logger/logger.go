// Package logger provides the logging interface used by library code and a
// zerolog-backed implementation for the command line.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a minimal logging interface for the projection engine.
// Implementations should be fast; the default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// Zerolog adapts a zerolog.Logger to Logger.
type Zerolog struct {
	zl zerolog.Logger
}

// New returns a console zerolog logger writing to w at the given level.
// An unknown level falls back to info.
func New(w io.Writer, level string) *Zerolog {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Str("service", "lifeweeks").
		Timestamp().
		Logger()
	return &Zerolog{zl: zl}
}

// ParseLevel parses a zerolog level name; an empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return lvl, nil
}

func (z *Zerolog) Debugf(format string, args ...any) { z.zl.Debug().Msgf(format, args...) }
func (z *Zerolog) Infof(format string, args ...any)  { z.zl.Info().Msgf(format, args...) }
func (z *Zerolog) Warnf(format string, args ...any)  { z.zl.Warn().Msgf(format, args...) }
func (z *Zerolog) Errorf(format string, args ...any) { z.zl.Error().Msgf(format, args...) }
