package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dremioauth/pkg/logging"
)

const (
	userConfigDir  = ".config/dremio-auth"
	configFileName = "config.yaml"

	// DefaultEnvFile is the dotenv file read from the working directory.
	DefaultEnvFile = ".env"
)

// osUserHomeDir is replaceable in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/dremio-auth.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig builds the configuration in layers: defaults, then config.yaml
// from configPath, then envFile, then the process environment. Variables already
// set in the environment are not overridden by envFile. Missing files are skipped;
// an empty configPath or envFile skips that layer.
func LoadConfig(configPath, envFile string) (Config, error) {
	config := GetDefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(filepath.Join(configPath, configFileName), &config); err != nil {
			return Config{}, err
		}
	}

	if envFile != "" {
		if err := loadEnvFile(envFile); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&config); err != nil {
		return Config{}, NewConfigurationError("", ErrorTypeEnv, fmt.Sprintf("parse env: %v", err), err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, NewConfigurationError("", ErrorTypeValidation, err.Error(), err)
	}

	return config, nil
}

func loadConfigFile(configFilePath string, config *Config) error {
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return nil
		}
		return NewConfigurationError(configFilePath, ErrorTypeIO, err.Error(), err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return NewConfigurationError(configFilePath, ErrorTypeParse, err.Error(), err)
	}

	logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return NewConfigurationError(path, ErrorTypeIO, err.Error(), err)
	}

	if err := godotenv.Load(path); err != nil {
		return NewConfigurationError(path, ErrorTypeParse, err.Error(), err)
	}

	logging.Debug("ConfigLoader", "Loaded environment from %s", path)
	return nil
}
