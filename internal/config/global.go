package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// GlobalConfigDir is the name of the global config directory in home
	GlobalConfigDir = ".asanakit"

	// GlobalConfigFileName is the name of the global config file
	GlobalConfigFileName = "config.toml"
)

// GlobalConfig represents the user-level configuration from ~/.asanakit/config.toml
type GlobalConfig struct {
	Token     string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// globalConfigFile represents the raw TOML structure for global config
type globalConfigFile struct {
	Auth authConfig `toml:"auth"`
	API  apiConfig  `toml:"api"`
}

// authConfig represents the [auth] section in TOML
type authConfig struct {
	Token string `toml:"token"`
}

// apiConfig represents the [api] section in TOML
type apiConfig struct {
	BaseURL   string    `toml:"base_url"`
	Timeout   *duration `toml:"timeout"`
	UserAgent string    `toml:"user_agent"`
}

// duration decodes Go duration strings such as "30s" from TOML.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if parsed <= 0 {
		return fmt.Errorf("invalid duration %q: must be positive", string(text))
	}
	d.Duration = parsed
	return nil
}

// LoadGlobalConfig loads the global configuration from ~/.asanakit/config.toml.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadGlobalConfigFromDir(homeDir)
}

// LoadGlobalConfigFromDir loads global config using the specified directory as home.
func LoadGlobalConfigFromDir(homeDir string) (*GlobalConfig, error) {
	configPath := GlobalConfigPath(homeDir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}

	var rawConfig globalConfigFile
	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse global config TOML: %w", err)
	}

	cfg := &GlobalConfig{
		Token:     rawConfig.Auth.Token,
		BaseURL:   rawConfig.API.BaseURL,
		UserAgent: rawConfig.API.UserAgent,
	}
	if rawConfig.API.Timeout != nil {
		cfg.Timeout = rawConfig.API.Timeout.Duration
	}

	return cfg, nil
}

// GlobalConfigPath returns the global config file location under homeDir.
func GlobalConfigPath(homeDir string) string {
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName)
}
