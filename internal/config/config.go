package config

import (
	"fmt"
	"time"

	"github.com/modaledit/vintage/internal/logger"
)

// Config holds plugin-level settings for the session subsystem.
type Config struct {
	// SessionFile overrides the resolved session record path. Empty means
	// derive it from the host packages path.
	SessionFile string `mapstructure:"session_file"`

	Autosave AutosaveConfig `mapstructure:"autosave"`

	// WatchSessionFile enables the external-modification watcher on the
	// session record.
	WatchSessionFile bool `mapstructure:"watch_session_file"`

	Logging logger.Config `mapstructure:"logging"`
}

// AutosaveConfig controls the periodic flush under deferred persistence.
type AutosaveConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Autosave: AutosaveConfig{
			Enabled:  false,
			Interval: 5 * time.Minute,
		},
		WatchSessionFile: false,
		Logging:          logger.DefaultConfig(),
	}
}

// Validate checks settings that would otherwise fail at runtime.
func (c *Config) Validate() error {
	if c.Autosave.Enabled && c.Autosave.Interval < time.Second {
		return fmt.Errorf("autosave interval must be at least 1s, got %s", c.Autosave.Interval)
	}
	return nil
}
