package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/asanakit/asanakit/pkg/asana"
)

// Environment variables consulted by ResolveConfig.
const (
	EnvToken     = "ASANA_TOKEN"
	EnvBaseURL   = "ASANA_BASE_URL"
	EnvWorkspace = "ASANA_WORKSPACE"
)

// DefaultTimeout is the HTTP timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// ResolvedConfig represents the final merged configuration with all
// precedence rules applied. Precedence order (highest to lowest):
// 1. Overrides (command-line flags)
// 2. Environment (process env, then .env in the working directory)
// 3. Project config (asanakit.toml)
// 4. Global config (~/.asanakit/config.toml)
// 5. Built-in defaults
type ResolvedConfig struct {
	Token     string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Workspace string
	Project   string
}

// Overrides holds values given explicitly on the command line. Empty
// fields are ignored.
type Overrides struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// ResolveConfig discovers the project config from the working directory,
// loads the global config and the environment, and merges them.
func ResolveConfig(o Overrides) (*ResolvedConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return ResolveConfigWithDirs(homeDir, cwd, o)
}

// ResolveConfigWithDirs resolves config using the given home and working
// directories.
func ResolveConfigWithDirs(homeDir, workDir string, o Overrides) (*ResolvedConfig, error) {
	// Step 1: Project config (optional)
	projectCfg, err := DiscoverProjectConfigFrom(workDir)
	if err != nil && !errors.Is(err, ErrNoProjectConfig) {
		return nil, err
	}
	if projectCfg == nil {
		projectCfg = &ProjectConfig{}
	}

	// Step 2: Global config (optional, errors are not ignored for invalid files)
	globalCfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		return nil, err
	}

	// Step 3: Environment
	env, err := loadEnv(workDir)
	if err != nil {
		return nil, err
	}

	// Step 4: Merge with precedence (defaults -> global -> project -> env -> flags)
	resolved := &ResolvedConfig{
		BaseURL:   asana.DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: "asanakit-cli/" + asana.Version,
	}

	apply(&resolved.Token, globalCfg.Token)
	apply(&resolved.BaseURL, globalCfg.BaseURL)
	apply(&resolved.UserAgent, globalCfg.UserAgent)
	if globalCfg.Timeout > 0 {
		resolved.Timeout = globalCfg.Timeout
	}

	apply(&resolved.BaseURL, projectCfg.BaseURL)
	apply(&resolved.Workspace, projectCfg.Workspace)
	apply(&resolved.Project, projectCfg.Project)
	if projectCfg.Timeout > 0 {
		resolved.Timeout = projectCfg.Timeout
	}

	apply(&resolved.Token, env[EnvToken])
	apply(&resolved.BaseURL, env[EnvBaseURL])
	apply(&resolved.Workspace, env[EnvWorkspace])

	apply(&resolved.Token, o.Token)
	apply(&resolved.BaseURL, o.BaseURL)
	if o.Timeout > 0 {
		resolved.Timeout = o.Timeout
	}

	return resolved, nil
}

// loadEnv returns the asanakit variables from workDir/.env overlaid with
// the process environment. The process environment wins.
func loadEnv(workDir string) (map[string]string, error) {
	env := map[string]string{}

	dotenv := filepath.Join(workDir, ".env")
	if _, err := os.Stat(dotenv); err == nil {
		values, err := godotenv.Read(dotenv)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", dotenv, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}

	for _, key := range []string{EnvToken, EnvBaseURL, EnvWorkspace} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			env[key] = v
		}
	}

	return env, nil
}

func apply(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
