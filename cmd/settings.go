package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"dremioauth/internal/config"
	"dremioauth/pkg/logging"
)

// loadSettings resolves the configuration for cmd, applies the persistent flag
// overrides and initializes logging. The returned cleanup closes the log file.
func loadSettings(cmd *cobra.Command) (config.Config, func(), error) {
	dir := configDir
	if dir == "" {
		defaultDir, err := config.GetDefaultConfigPath()
		if err != nil {
			logging.Warn("CLI", "Skipping config.yaml: %v", err)
		}
		dir = defaultDir
	}

	cfg, err := config.LoadConfig(dir, envFile)
	if err != nil {
		return config.Config{}, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Logging.File = logFile
	}

	cleanup, err := setupLogging(cmd.ErrOrStderr(), cfg.Logging)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, cleanup, nil
}

func setupLogging(stderr io.Writer, settings config.LoggingConfig) (func(), error) {
	level, err := logging.ParseLogLevel(settings.Level)
	if err != nil {
		return nil, config.NewConfigurationError("", config.ErrorTypeValidation, err.Error(), err)
	}

	if settings.File == "" {
		logging.InitForCLI(level, stderr)
		return func() {}, nil
	}

	w := logging.NewFileWriter(settings.File)
	logging.InitForCLI(level, w)
	return func() { _ = w.Close() }, nil
}
