// Package config loads service settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	// Environment is "development" or "production"; it picks the log format.
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	HTTP struct {
		Addr        string `env:"HTTP_ADDR" env-default:"localhost:3000"`
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics"`
	}

	Database struct {
		URL string `env:"DB_URL" env-required:"true"`
	}

	// GracefulShutdownTimeout bounds how long in-flight requests may run after SIGTERM.
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s"`

	Nutrition struct {
		// Timezone decides which calendar day is "today" for age and event pacing.
		Timezone string `env:"NUTRITION_TIMEZONE" env-default:"UTC"`
	}
}

// Load reads .env (if any) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	return &cfg, nil
}

// Location resolves Nutrition.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Nutrition.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid NUTRITION_TIMEZONE %q: %w", c.Nutrition.Timezone, err)
	}
	return loc, nil
}
