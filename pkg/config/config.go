package config

import (
	"fmt"
	"os"
	"time"

	"SectorPulse/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logger"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Yahoo struct {
		BaseURL    string        `yaml:"base_url"`
		UserAgent  string        `yaml:"user_agent"`
		Timeout    time.Duration `yaml:"timeout"`
		RatePerSec float64       `yaml:"rate_per_sec"`
		Burst      float64       `yaml:"burst"`
	} `yaml:"yahoo"`
	Cache struct {
		Enabled bool   `yaml:"enabled"`
		Backend string `yaml:"backend"` // file or redis
		Dir     string `yaml:"dir"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Aggregator struct {
		Mode           string `yaml:"mode"` // concurrent or sequential
		MaxConcurrency int    `yaml:"max_concurrency"`
	} `yaml:"aggregator"`
	Metadata struct {
		Path string `yaml:"path"`
	} `yaml:"metadata"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("METADATA_PATH"); v != "" {
		c.Metadata.Path = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		c.Yahoo.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stdout"
	}
	if c.Yahoo.Timeout == 0 {
		c.Yahoo.Timeout = 30 * time.Second
	}
	if c.Yahoo.RatePerSec == 0 {
		c.Yahoo.RatePerSec = 5
	}
	if c.Yahoo.Burst == 0 {
		c.Yahoo.Burst = 8
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "data/sector-cache"
	}
	if c.Aggregator.Mode == "" {
		c.Aggregator.Mode = "concurrent"
	}
	if c.Aggregator.MaxConcurrency <= 0 {
		c.Aggregator.MaxConcurrency = 8
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Metadata.Path == "" {
		return fmt.Errorf("metadata.path is required")
	}
	if c.Cache.Backend != "file" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'file' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Aggregator.Mode != "concurrent" && c.Aggregator.Mode != "sequential" {
		return fmt.Errorf("aggregator.mode must be 'concurrent' or 'sequential', got '%s'", c.Aggregator.Mode)
	}
	return nil
}
