// Package config loads studyhall settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full client configuration.
type Config struct {
	// BackendBaseURL is prepended to every API path. Empty means relative
	// targets such as "/auth/new-account".
	BackendBaseURL string        `env:"STUDYHALL_BACKEND_BASE_URL"`
	AppURL         string        `env:"STUDYHALL_APP_URL"`
	Home           string        `env:"STUDYHALL_HOME"`
	Store          string        `env:"STUDYHALL_STORE"        envDefault:"file"`
	HTTPTimeout    time.Duration `env:"STUDYHALL_HTTP_TIMEOUT" envDefault:"30s"`
	LogLevel       string        `env:"STUDYHALL_LOG_LEVEL"    envDefault:"info"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Home == "" {
		home, err := DefaultHome()
		if err != nil {
			return Config{}, err
		}
		cfg.Home = home
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultHome returns ~/.studyhall.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".studyhall"), nil
}

// LogPath is the file the client logs to.
func (c Config) LogPath() string {
	return filepath.Join(c.Home, "studyhall.log")
}
