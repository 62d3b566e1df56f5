// Package config resolves reslate CLI settings from RESLATE_* environment
// variables. All of them are optional; anything unset falls back to the
// library defaults. cmd/reslate loads a .env file before calling Load, so
// the variables can also live next to the documents being converted.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tsawler/reslate/extract"
	"github.com/tsawler/reslate/internal/logger"
	"github.com/tsawler/reslate/raster"
)

// Config carries the environment-derived defaults for the CLI flags.
// Flags given on the command line take precedence over these values.
type Config struct {
	DPI       int      // RESLATE_DPI: background render resolution
	Languages []string // RESLATE_LANGS: recognition languages, e.g. "jpn+eng"
	LogLevel  string   // RESLATE_LOG_LEVEL: debug, info, warn, or error
	LogFormat string   // RESLATE_LOG_FORMAT: console or json
}

// Load reads the RESLATE_* environment variables and validates them.
func Load() (*Config, error) {
	cfg := &Config{
		DPI:       raster.DefaultDPI,
		Languages: append([]string(nil), extract.DefaultLanguages...),
		LogLevel:  getEnv("RESLATE_LOG_LEVEL", "info"),
		LogFormat: getEnv("RESLATE_LOG_FORMAT", "console"),
	}

	if v := os.Getenv("RESLATE_DPI"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RESLATE_DPI: %q is not a number", v)
		}
		cfg.DPI = dpi
	}
	if v := os.Getenv("RESLATE_LANGS"); v != "" {
		cfg.Languages = ParseLanguages(v)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("RESLATE_DPI must be positive, got %d", c.DPI)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("RESLATE_LANGS must name at least one language")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("RESLATE_LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// LoggerConfig translates the environment settings into a logger setup.
func (c *Config) LoggerConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	return lc
}

// ParseLanguages splits a tesseract language spec such as "jpn+eng".
// Blank entries are dropped.
func ParseLanguages(spec string) []string {
	var langs []string
	for _, l := range strings.Split(spec, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// getEnv returns the value of key, or fallback when key is unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
