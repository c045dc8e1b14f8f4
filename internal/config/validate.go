// internal/config/validate.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmunix/reelbox/internal/catalog"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Catalog validation
	if c.Catalog.Strategy != "" && !catalog.Strategy(c.Catalog.Strategy).Valid() {
		errs = append(errs, fmt.Sprintf("catalog.strategy: must be one of none, title, page; got %q", c.Catalog.Strategy))
	}
	if c.Catalog.CacheSize < 0 {
		errs = append(errs, fmt.Sprintf("catalog.cache_size: must be positive, got %d", c.Catalog.CacheSize))
	}
	if c.Catalog.FlushInterval < 0 {
		errs = append(errs, fmt.Sprintf("catalog.flush_interval: must not be negative, got %s", c.Catalog.FlushInterval))
	}
	if c.Database.RetainEvents < 0 {
		errs = append(errs, fmt.Sprintf("database.retain_events: must not be negative, got %s", c.Database.RetainEvents))
	}
	if c.Catalog.Path != "" {
		if info, err := os.Stat(c.Catalog.Path); err == nil && info.IsDir() {
			errs = append(errs, fmt.Sprintf("catalog.path: %q is a directory", c.Catalog.Path))
		}
	}
	if c.Catalog.Path != "" && c.Index.Path != "" && filepath.Clean(c.Catalog.Path) == filepath.Clean(c.Index.Path) {
		errs = append(errs, "index.path: must differ from catalog.path")
	}

	return errs
}
