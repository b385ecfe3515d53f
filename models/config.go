// Package models defines data structures for configuration, clips and notes.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Every field has a default, so an
// absent file is not an error; CLI flags override what is loaded here.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		DBPath    string `yaml:"db_path"`
		ExportDir string `yaml:"export_dir"`
	} `yaml:"storage"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
		CacheDir  string        `yaml:"cache_dir"`
		CacheTTL  time.Duration `yaml:"cache_ttl"`
	} `yaml:"fetch"`

	Extract struct {
		MaxDepth int `yaml:"max_depth"`
	} `yaml:"extract"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console or json
	} `yaml:"log"`
}

const (
	DefaultAddr      = "127.0.0.1:7878"
	DefaultDBPath    = "web-clipper.db"
	DefaultExportDir = "notes"
	DefaultCacheDir  = ".web-clipper-cache"
	DefaultUserAgent = "web-clipper/1.0"
	DefaultMaxDepth  = 50
)

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML config file. An empty path or a missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = DefaultDBPath
	}
	if c.Storage.ExportDir == "" {
		c.Storage.ExportDir = DefaultExportDir
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 15 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.CacheDir == "" {
		c.Fetch.CacheDir = DefaultCacheDir
	}
	if c.Fetch.CacheTTL == 0 {
		c.Fetch.CacheTTL = time.Hour
	}
	if c.Extract.MaxDepth == 0 {
		c.Extract.MaxDepth = DefaultMaxDepth
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

func (c *Config) validate() error {
	if c.Extract.MaxDepth < 0 {
		return fmt.Errorf("extract.max_depth must be positive, got %d", c.Extract.MaxDepth)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
