// Package config handles the per-user magpie configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the global magpie configuration, read from
// ~/.config/magpie/config.toml (or the platform equivalent).
type Config struct {
	// DefaultProfile is the profile used when --profile is not given.
	DefaultProfile string `toml:"default_profile"`

	// HistoryFile is where readline history is kept.
	// Defaults to ~/.mgp_history.
	HistoryFile string `toml:"history_file"`

	// StartupScript is a plain text file of shell command lines fed
	// through the dispatcher before the interactive loop begins.
	// Defaults to ~/.mgprc.
	StartupScript string `toml:"startup_script"`

	// Profiles maps profile names to store backends.
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile describes one backing store configuration.
type Profile struct {
	// Backend selects the store implementation: "sqlite" or "fixture".
	Backend string `toml:"backend"`

	// Path is the database file (sqlite) or YAML fixture file (fixture).
	Path string `toml:"path"`
}

// DefaultPath returns the fixed per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "magpie", "config.toml"), nil
}

// Load reads the config at path. A missing file is not an error; it
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HistoryFile == "" {
		c.HistoryFile = "~/.mgp_history"
	}
	if c.StartupScript == "" {
		c.StartupScript = "~/.mgprc"
	}
}

// Profile resolves a profile by name; an empty name means the default
// profile. The returned name is the resolved one.
func (c *Config) Profile(name string) (string, Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return "", Profile{}, fmt.Errorf("no profile specified and no default_profile configured")
	}
	p, ok := c.Profiles[name]
	if !ok {
		return "", Profile{}, fmt.Errorf("profile %q not found in config", name)
	}
	switch p.Backend {
	case "sqlite", "fixture":
	default:
		return "", Profile{}, fmt.Errorf("profile %q: unknown backend %q (want sqlite or fixture)", name, p.Backend)
	}
	if p.Path == "" {
		return "", Profile{}, fmt.Errorf("profile %q: missing path", name)
	}
	return name, p, nil
}

// ExpandHome expands a leading ~/ against the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
