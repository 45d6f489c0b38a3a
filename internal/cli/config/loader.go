package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/civ7save-go/internal/infra/confloader"
)

// EnvPrefix is the environment variable prefix for CLI settings.
const EnvPrefix = "CIV7SAVE_CLI_"

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".civ7save")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "cli.yaml")
}

func defaultIndexDir() string {
	return filepath.Join(baseDir(), "index")
}

// Load loads CLI configuration from path and the environment. A missing
// file is not an error.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithOptionalFile(path),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, readable only by the owner.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
