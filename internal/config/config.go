// Package config handles loading msgsearch configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the msgsearch configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Search   SearchConfig   `toml:"search"`

	// Computed paths (not from config file)
	HomeDir    string `toml:"-"`
	configPath string
}

// DatabaseConfig locates the message index.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SearchConfig holds defaults for the search and address commands.
type SearchConfig struct {
	// ExcludeTags are hidden from results unless a query names them.
	ExcludeTags []string `toml:"exclude_tags"`
	Format      string   `toml:"format"`
	Sort        string   `toml:"sort"`
}

// DefaultHome returns the default msgsearch home directory.
// Respects the MSGSEARCH_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("MSGSEARCH_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".msgsearch"
	}
	return filepath.Join(home, ".msgsearch")
}

// NewDefaultConfig returns the configuration used when no file exists.
func NewDefaultConfig(homeDir string) *Config {
	return &Config{
		HomeDir: homeDir,
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir, "index.db"),
		},
		Search: SearchConfig{
			ExcludeTags: []string{"deleted", "spam"},
			Format:      "text",
			Sort:        "newest-first",
		},
		configPath: filepath.Join(homeDir, "config.toml"),
	}
}

// Load reads the configuration. An explicit path must exist; its directory
// becomes the home directory. Otherwise config.toml is read from homeDir
// (or DefaultHome when empty) if present.
func Load(path, homeDir string) (*Config, error) {
	explicit := path != ""
	switch {
	case explicit:
		path = expandPath(path)
		if homeDir == "" {
			homeDir = filepath.Dir(path)
		}
	case homeDir != "":
		homeDir = expandPath(homeDir)
		path = filepath.Join(homeDir, "config.toml")
	default:
		homeDir = DefaultHome()
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := NewDefaultConfig(homeDir)
	cfg.configPath = path

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, decodeError(err)
	}

	cfg.Database.Path = expandPath(cfg.Database.Path)
	if cfg.Database.Path != "" && !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(homeDir, cfg.Database.Path)
	}

	return cfg, nil
}

// decodeError adds a hint for the common mistake of writing Windows paths
// with backslashes inside double-quoted TOML strings.
func decodeError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "invalid escape") || strings.Contains(msg, "hexadecimal digits") {
		return fmt.Errorf("decode config: %w (hint: use forward slashes or single quotes for paths containing backslashes)", err)
	}
	return fmt.Errorf("decode config: %w", err)
}

// ConfigFilePath returns the path config was (or would be) read from.
func (c *Config) ConfigFilePath() string {
	return c.configPath
}

// DatabasePath returns the path to the SQLite index.
func (c *Config) DatabasePath() string {
	if c.Database.Path == "" {
		return filepath.Join(c.HomeDir, "index.db")
	}
	return c.Database.Path
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		// ~user forms are left alone.
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
