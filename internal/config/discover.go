package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that pins the config file.
const EnvConfig = "REELBOX_CONFIG"

// DefaultPath is where `reelbox init` writes and Discover looks for a user
// config: $XDG_CONFIG_HOME/reelbox/config.toml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "reelbox", "config.toml")
}

// searchPaths lists the candidates Discover tries, in order.
func searchPaths() []string {
	return []string{"config.toml", DefaultPath(), "/etc/reelbox/config.toml"}
}

// Discover returns the config file to load. REELBOX_CONFIG wins and must
// exist; otherwise the first existing file of searchPaths is used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	candidates := searchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no config file found (looked in %s); run `reelbox init` to create one",
		strings.Join(candidates, ", "))
}
