// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Platform modes.
const (
	PlatformMemory = "memory"
	PlatformRest   = "rest"
)

// Config holds the engine's runtime configuration. Variables are read from
// the HEALTHSYNC_ prefix.
type Config struct {
	Addr          string `envconfig:"ADDR" default:":8080"`
	DBPath        string `envconfig:"DB_PATH" default:"healthsync.db"`
	PlatformMode  string `envconfig:"PLATFORM_MODE" default:"memory"`
	PlatformURL   string `envconfig:"PLATFORM_URL" default:""`
	PlatformToken string `envconfig:"PLATFORM_TOKEN" default:""`
	DeviceName    string `envconfig:"DEVICE_NAME" default:"healthsync"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load parses and validates the configuration.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("healthsync", &c); err != nil {
		return nil, err
	}
	switch c.PlatformMode {
	case PlatformMemory:
	case PlatformRest:
		if c.PlatformURL == "" {
			return nil, fmt.Errorf("HEALTHSYNC_PLATFORM_URL is required when HEALTHSYNC_PLATFORM_MODE=%s", PlatformRest)
		}
	default:
		return nil, fmt.Errorf("unsupported HEALTHSYNC_PLATFORM_MODE: %s", c.PlatformMode)
	}
	return &c, nil
}
