package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project configuration file
const ConfigFileName = "asanakit.toml"

// ErrNoProjectConfig is returned when no asanakit.toml exists in the
// directory tree.
var ErrNoProjectConfig = errors.New("no asanakit.toml found")

// ProjectConfig represents the directory-level configuration from asanakit.toml
type ProjectConfig struct {
	// Path is the file the config was read from.
	Path      string
	Workspace string
	Project   string
	BaseURL   string
	Timeout   time.Duration
}

// projectConfigFile represents the raw TOML structure
type projectConfigFile struct {
	Workspace string    `toml:"workspace"`
	Project   string    `toml:"project"`
	API       apiConfig `toml:"api"`
}

// DiscoverProjectConfig finds and parses the asanakit.toml file by traversing
// up the directory tree from the current working directory.
func DiscoverProjectConfig() (*ProjectConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return DiscoverProjectConfigFrom(cwd)
}

// DiscoverProjectConfigFrom searches for asanakit.toml starting from the given directory
func DiscoverProjectConfigFrom(startDir string) (*ProjectConfig, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return ParseProjectConfig(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoProjectConfig
		}
		dir = parent
	}
}

// ParseProjectConfig parses the asanakit.toml file at the given path
func ParseProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig projectConfigFile
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if err := validateGID("workspace", rawConfig.Workspace); err != nil {
		return nil, err
	}
	if err := validateGID("project", rawConfig.Project); err != nil {
		return nil, err
	}

	cfg := &ProjectConfig{
		Path:      path,
		Workspace: rawConfig.Workspace,
		Project:   rawConfig.Project,
		BaseURL:   rawConfig.API.BaseURL,
	}
	if rawConfig.API.Timeout != nil {
		cfg.Timeout = rawConfig.API.Timeout.Duration
	}

	return cfg, nil
}

// validateGID checks that an optional gid contains only digits.
func validateGID(field, gid string) error {
	for _, r := range gid {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid %s gid %q: must be numeric", field, gid)
		}
	}
	return nil
}
