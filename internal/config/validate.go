package config

import (
	"errors"
	"fmt"

	"mediaconv/internal/services"
)

// Validate ensures the configuration is usable. Failures carry the
// configuration error marker so callers can classify them.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateTools,
		c.validateImage,
		c.validateAudio,
		c.validateHistory,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return services.Wrap(services.ErrConfiguration, "config", "", "", err)
		}
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateImage() error {
	if c.Image.Width < 0 || c.Image.Height < 0 {
		return errors.New("image.width and image.height must not be negative")
	}
	if c.Image.Scale < 0 {
		return errors.New("image.scale must not be negative")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < 0 {
		return errors.New("audio.sample_rate must not be negative")
	}
	if c.Audio.Channels < 0 {
		return errors.New("audio.channels must not be negative")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.RetentionDays < 0 {
		return errors.New("history.retention_days must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}
