package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dremioauth/internal/config"
	"dremioauth/internal/oauth"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigError indicates the configuration is missing or invalid.
	ExitCodeConfigError = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

// Persistent flags shared by all subcommands.
var (
	configDir string
	envFile   string
	logLevel  string
	logFile   string
)

// rootCmd represents the base command for the dremio-auth application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Flags are bound to the package-level
// variables, which are reset to their defaults on every call.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dremio-auth",
		Short: "Obtain a Dremio access token through the browser",
		Long: `dremio-auth runs the OAuth2 authorization-code flow against Dremio Cloud.

It opens the authorization page in your browser, receives the redirect on a
short-lived local listener (http://localhost:8000/callback by default) and
exchanges the code for an access token, which is printed together with a
DREMIO_TOKEN=... line for your .env file.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default is $HOME/.config/dremio-auth)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Dotenv file to load; variables already set in the environment win")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file (rotated) instead of stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// appVersion is kept apart from rootCmd.Version so subcommands can read it
// without referring to rootCmd.
var appVersion = "dev"

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return appVersion
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "dremio-auth version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var loadErr *config.ConfigurationError
	if errors.As(err, &loadErr) {
		return ExitCodeConfigError
	}

	var cfgErr *oauth.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfigError
	}

	var authFailed *AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}
