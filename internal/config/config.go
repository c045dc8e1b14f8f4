// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Index    IndexConfig    `toml:"index"`
	Database DatabaseConfig `toml:"database"`
	Media    MediaConfig    `toml:"media"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// CatalogConfig selects the backing store and the synopsis caching strategy.
type CatalogConfig struct {
	Path          string        `toml:"path"`
	Strategy      string        `toml:"strategy"` // none, title or page
	CacheSize     int           `toml:"cache_size"`
	FlushInterval time.Duration `toml:"flush_interval"` // 0 flushes only on shutdown
}

type IndexConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig locates the event journal.
type DatabaseConfig struct {
	Path         string        `toml:"path"`
	RetainEvents time.Duration `toml:"retain_events"` // 0 keeps every event
}

type MediaConfig struct {
	ImagesDir string `toml:"images_dir"`
	AssetsDir string `toml:"assets_dir"`
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation and unresolved variable checks.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8484
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "./data/movies.csv"
	}
	if c.Catalog.Strategy == "" {
		c.Catalog.Strategy = "none"
	}
	if c.Catalog.CacheSize == 0 {
		c.Catalog.CacheSize = 10
	}
	if c.Index.Path == "" {
		c.Index.Path = "./data/index.db"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/reelbox.db"
	}
	if c.Media.ImagesDir == "" {
		c.Media.ImagesDir = "./data/imgs"
	}
	if c.Media.AssetsDir == "" {
		c.Media.AssetsDir = "./assets"
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars expands environment references in content. Unresolved
// references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		name, op, arg := sub[1], sub[2], sub[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case "-":
			if value == "" {
				return arg
			}
			return value
		case "?":
			if value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
