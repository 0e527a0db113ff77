// Package config loads the console configuration: a YAML file under the
// user config dir with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Endpoint is the backend base URL.
	Endpoint string `yaml:"endpoint"`
	// TimeoutSeconds bounds each backend call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// CallbackAddr is the listen address for the browser login flow.
	CallbackAddr string `yaml:"callback_addr"`
	// InviteLinkBase, when set, is used to render shareable invitation URLs.
	InviteLinkBase string `yaml:"invite_link_base"`

	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Otel    OtelConfig    `yaml:"otel"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type StorageConfig struct {
	// Backend is "file" (default) or "redis".
	Backend string `yaml:"backend"`
	Redis   struct {
		Addr      string `yaml:"addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		Namespace string `yaml:"namespace"`
	} `yaml:"redis"`
}

type OtelConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Endpoint   string  `yaml:"endpoint"`
	SampleRate float64 `yaml:"sample_rate"`
}

// DefaultPath is the conventional config location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fleet-admin", "config.yaml")
}

// Load reads the config file at path (missing file is fine), then applies
// env overrides and defaults. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FLEET_ADMIN_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("FLEET_ADMIN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("FLEET_ADMIN_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("FLEET_ADMIN_REDIS_ADDR"); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := os.Getenv("FLEET_ADMIN_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:8080"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.CallbackAddr == "" {
		c.CallbackAddr = "127.0.0.1:8943"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = "production"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Otel.SampleRate == 0 {
		c.Otel.SampleRate = 1.0
	}
}
