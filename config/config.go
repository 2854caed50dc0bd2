// Package config loads dashboard settings from an optional TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds every user-tunable setting.
type Config struct {
	Port          int    `toml:"port"`
	MovingAvgDays int    `toml:"moving_avg_days"`
	Format        string `toml:"format"` // parquet|csv
	OutDir        string `toml:"out_dir"`
	OpenBrowser   bool   `toml:"open_browser"`
	LogLevel      string `toml:"log_level"`
}

// Default returns the settings used when no file and no env overrides are
// present.
func Default() Config {
	return Config{
		Port:          8080,
		MovingAvgDays: 7,
		Format:        "csv",
		OutDir:        "out",
		OpenBrowser:   true,
		LogLevel:      "info",
	}
}

// Load reads the TOML file at path when it exists, then applies env
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HEALTHDASH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("HEALTHDASH_MOVING_AVG_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.MovingAvgDays = days
		}
	}
	if v := os.Getenv("HEALTHDASH_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("HEALTHDASH_OUT_DIR"); v != "" {
		c.OutDir = v
	}
	if v := os.Getenv("HEALTHDASH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HEALTHDASH_OPEN_BROWSER"); v != "" {
		if open, err := strconv.ParseBool(v); err == nil {
			c.OpenBrowser = open
		}
	}
}
