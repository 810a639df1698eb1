package pkg

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Component identifies a subsystem for log filtering.
type Component string

// Control stack component identifiers.
const (
	ComponentDevice   Component = "device"
	ComponentStatus   Component = "status"
	ComponentContents Component = "contents"
	ComponentSession  Component = "session"
	ComponentCommand  Component = "command"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to os.Stderr)
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global logger exactly once. Later calls are
// no-ops, so libraries and programs can both call it safely. When no
// level is given the LOG_LEVEL environment variable is consulted, and
// the default is warn.
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.WarnLevel
		if cfg.Level != "" {
			if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		} else if env := os.Getenv("LOG_LEVEL"); env != "" {
			if parsed, err := zerolog.ParseLevel(env); err == nil {
				level = parsed
			}
		}
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil {
			writer = os.Stderr
		}

		base = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	})
}

func logger() zerolog.Logger {
	Configure(Config{})
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component Component) zerolog.Logger {
	return logger().With().Str("component", string(component)).Logger()
}
