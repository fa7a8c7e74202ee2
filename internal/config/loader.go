package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration and output directory.
const DirName = ".atlas"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (ATLAS_*)
// 2. Config file (.atlas/config.yml or .atlas/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))

	// ATLAS_SOURCES_BACKEND_ROOT overrides sources.backend_root
	v.SetEnvPrefix("ATLAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("sources.backend_root")
	v.BindEnv("sources.frontend_root")

	v.BindEnv("snippets.controller_lines")
	v.BindEnv("snippets.service_lines")
	v.BindEnv("snippets.frontend_lines")

	v.BindEnv("structure.strategy")

	v.BindEnv("output.path")
	v.BindEnv("output.database")

	v.BindEnv("watch.debounce_ms")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("sources.backend_root", defaults.Sources.BackendRoot)
	v.SetDefault("sources.frontend_root", defaults.Sources.FrontendRoot)

	v.SetDefault("patterns.controllers", defaults.Patterns.Controllers)
	v.SetDefault("patterns.services", defaults.Patterns.Services)
	v.SetDefault("patterns.service_exclude", defaults.Patterns.ServiceExclude)
	v.SetDefault("patterns.dtos", defaults.Patterns.Dtos)
	v.SetDefault("patterns.frontend", defaults.Patterns.Frontend)
	v.SetDefault("patterns.ignore", defaults.Patterns.Ignore)

	v.SetDefault("snippets.controller_lines", defaults.Snippets.ControllerLines)
	v.SetDefault("snippets.service_lines", defaults.Snippets.ServiceLines)
	v.SetDefault("snippets.frontend_lines", defaults.Snippets.FrontendLines)

	v.SetDefault("structure.strategy", defaults.Structure.Strategy)

	v.SetDefault("output.path", defaults.Output.Path)
	v.SetDefault("output.database", defaults.Output.Database)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	// Per-label keys so a config file can override single entries.
	for key, label := range defaults.Domains {
		v.SetDefault("domains."+key+".en", label.En)
		v.SetDefault("domains."+key+".ar", label.Ar)
	}
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
