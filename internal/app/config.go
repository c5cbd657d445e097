package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable the app reads.
const EnvPrefix = "REACTOR_"

// History backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProgramPath string `env:"PROGRAM"` // hcl files
	ScriptPath  string `env:"SCRIPT"`  // hcl files with send blocks; defaults to ProgramPath

	// HistoryPath is the sqlite file or badger directory. Empty disables
	// persistence.
	HistoryPath    string `env:"HISTORY_PATH"`
	HistoryBackend string `env:"HISTORY_BACKEND" envDefault:"sqlite"`

	// Interval is the checkpoint interval K; 0 picks the engine default.
	Interval int `env:"CHECKPOINT_INTERVAL"`
	// Linger keeps the session playing after the script, so timer inputs
	// keep firing.
	Linger time.Duration `env:"LINGER"`

	LogFormat       string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	HealthcheckPort int    `env:"HEALTHCHECK_PORT"`

	NotifyURL       string `env:"NOTIFY_URL"`
	NotifyNamespace string `env:"NOTIFY_NAMESPACE" envDefault:"/"`
}

// ConfigFromEnv returns a Config populated from REACTOR_* variables, with
// defaults for everything unset. Command-line flags are layered on top.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewConfig validates cfg and returns a copy the App may keep.
func NewConfig(cfg Config) (*Config, error) {
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.HistoryBackend {
	case BackendSQLite, BackendBadger:
	default:
		return nil, fmt.Errorf("invalid history backend %q: must be %q or %q", cfg.HistoryBackend, BackendSQLite, BackendBadger)
	}
	if cfg.Interval < 0 {
		return nil, errors.New("checkpoint interval must not be negative")
	}
	if cfg.Linger < 0 {
		return nil, errors.New("linger must not be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
