package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wayfarer/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/wayfarer"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns the per-user configuration
// directory. It panics only when the home directory cannot be resolved,
// which means the process environment is broken beyond recovery.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads configuration from the specified directory. A missing
// config.yaml is not an error: defaults are returned so the server can
// run without any configuration file at all. Environment overrides for
// the OAuth credentials are applied last.
func LoadConfig(configPath string) (WayfarerConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			applyEnvOverrides(&config)
			return config, nil
		}
		return WayfarerConfig{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return WayfarerConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	applyEnvOverrides(&config)
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// applyEnvOverrides lets the standard GitHub OAuth environment variables
// take precedence over whatever the file supplied. Credentials normally
// live in the environment rather than on disk.
func applyEnvOverrides(config *WayfarerConfig) {
	if v := os.Getenv("GITHUB_CLIENT_ID"); v != "" {
		config.OAuth.ClientID = v
	}
	if v := os.Getenv("GITHUB_CLIENT_SECRET"); v != "" {
		config.OAuth.ClientSecret = v
	}
	if v := os.Getenv("GITHUB_REDIRECT_URI"); v != "" {
		config.OAuth.RedirectURI = v
	}
	if config.OAuth.Scope == "" {
		config.OAuth.Scope = DefaultOAuthScope
	}
	if config.OAuth.StateTTL <= 0 {
		config.OAuth.StateTTL = DefaultStateTTL
	}
}
