// Package config loads processor configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
)

// Config holds the processor's runtime settings.
type Config struct {
	// StateTimeout bounds each state context call. A timeout is fatal for
	// the invocation; retries belong to the execution engine.
	StateTimeout time.Duration `env:"MARKETPLACE_STATE_TIMEOUT" envDefault:"2s"`

	// LogLevel is the zap log level for processor logging.
	LogLevel string `env:"MARKETPLACE_LOG_LEVEL" envDefault:"info"`

	// MetricsNamespace prefixes all Prometheus metric names.
	MetricsNamespace string `env:"MARKETPLACE_METRICS_NAMESPACE" envDefault:"marketplace"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.StateTimeout <= 0 {
		return Config{}, fmt.Errorf("state timeout must be positive, got %s", cfg.StateTimeout)
	}
	if _, err := cfg.ZapLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ZapLevel parses the configured log level.
func (c Config) ZapLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InvalidLevel, fmt.Errorf("parse log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
