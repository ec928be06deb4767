// Package config handles global configuration and settings resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/bibconv/config.yml.
type GlobalConfig struct {
	Dialect string `yaml:"dialect,omitempty"` // biblatex or bibtex
	Strict  bool   `yaml:"strict,omitempty"`  // fail on recoverable problems
	DBPath  string `yaml:"db_path,omitempty"` // entry store location
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME and XDG_DATA_HOME.
	GlobalConfigDir = "bibconv"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// DBFile is the default entry store file name.
	DBFile = "entries.db"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bibconv/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// DefaultDBPath returns the default entry store path.
// Respects XDG_DATA_HOME, defaults to ~/.local/share/bibconv/entries.db.
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DBFile
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, GlobalConfigDir, DBFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config %s: %w", path, err)
	}

	if cfg.DBPath != "" {
		cfg.DBPath = ExpandPath(cfg.DBPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// HelpfulConfigMessage explains where settings can be configured.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Settings are read from flags, then environment, then %s.

Example:
  mkdir -p %s
  printf 'dialect: bibtex\nstrict: true\n' > %s

Environment: %s, %s, %s (also read from .env)`,
		configPath,
		filepath.Dir(configPath),
		configPath,
		EnvDialect, EnvStrict, EnvDB)
}
