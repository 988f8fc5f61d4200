// Package log configures the zerolog loggers used across medilog.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel overrides the configured level when set.
const EnvLevel = "MEDILOG_LOG_LEVEL"

// DefaultLevel keeps the terminal quiet unless something goes wrong.
const DefaultLevel = zerolog.WarnLevel

// Config captures options for building a logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to os.Stderr)
	Pretty bool      // render with zerolog.ConsoleWriter
	Color  bool      // colour console output, only used with Pretty
}

var (
	once sync.Once
	base zerolog.Logger
)

// ParseLevel resolves the level from the environment first, then level,
// falling back to DefaultLevel for empty or unknown values.
func ParseLevel(level string) zerolog.Level {
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(env)); err == nil {
			return parsed
		}
	}
	if level = strings.TrimSpace(level); level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			return parsed
		}
	}
	return DefaultLevel
}

// New builds a logger from cfg without touching process-wide state.
func New(cfg Config) zerolog.Logger {
	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			NoColor:    !cfg.Color,
			TimeFormat: time.TimeOnly,
		}
	}
	return zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// Configure installs the base logger exactly once.
func Configure(cfg Config) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339
		base = New(cfg)
	})
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	Configure(Config{})
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}
