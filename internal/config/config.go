package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Extensions  []string `env:"RESX_HOOKS_EXTENSIONS" envDefault:".resx" envSeparator:","`
	WorkerCount int      `env:"RESX_HOOKS_WORKERS" envDefault:"8"`
	LogLevel    string   `env:"RESX_HOOKS_LOG_LEVEL" envDefault:"info"`
	Format      string   `env:"RESX_HOOKS_FORMAT" envDefault:"text"`
	NoColor     bool     `env:"NO_COLOR"`
	Record      bool     `env:"RESX_HOOKS_RECORD" envDefault:"false"`
	DatabaseURL string   `env:"DATABASE_URL"`
	GitBinary   string   `env:"RESX_HOOKS_GIT" envDefault:"git"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalises extensions and checks every setting. It is called by
// Load and again after command line flags override values.
func (c *Config) Validate() error {
	exts := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		return fmt.Errorf("%w: RESX_HOOKS_EXTENSIONS must name at least one extension", ErrInvalidConfig)
	}
	c.Extensions = exts

	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: RESX_HOOKS_WORKERS must be at least 1, got %d", ErrInvalidConfig, c.WorkerCount)
	}

	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: RESX_HOOKS_LOG_LEVEL: %w", ErrInvalidConfig, err)
	}

	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: RESX_HOOKS_FORMAT must be %q or %q, got %q", ErrInvalidConfig, FormatText, FormatJSON, c.Format)
	}

	if c.Record && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("%w: DATABASE_URL is required when recording runs", ErrInvalidConfig)
	}

	return nil
}

// Level returns the configured zerolog level.
func (c *Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(c.LogLevel))
}
