// Package logger configures the process-wide zerolog logger for the
// reslate command line tools. The library itself never touches the global
// logger; commands pass logger.GetLogger() into the converter explicitly.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogConfig holds the logger settings resolved from the environment.
type LogConfig struct {
	Level      string // debug, info, warn, or error
	Format     string // console or json
	TimeFormat string // timestamp layout for log events
	Output     string // stderr, stdout, or a file path
}

// DefaultConfig returns the settings used when nothing is configured:
// info-level console output on stderr.
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     "stderr",
	}
}

// Setup installs the global logger described by config. Calling it again
// reconfigures the logger, so a command can raise the level after flag
// parsing.
func Setup(config LogConfig) error {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = config.TimeFormat

	var output io.Writer
	switch config.Output {
	case "stderr", "":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		output = f
	}

	if config.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: config.TimeFormat}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// GetLogger returns the configured global logger.
func GetLogger() zerolog.Logger {
	return log.Logger
}

// WithComponent returns the global logger tagged with a component name.
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
