package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"dremioauth/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration login would use, after applying config.yaml,
the dotenv file and environment variables. The client id is partially masked.`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	renderConfigTable(cmd, cfg)

	if err := cfg.AuthConfig().Validate(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), text.FgYellow.Sprint("Warning: "+err.Error()))
	}
	return nil
}

func renderConfigTable(cmd *cobra.Command, cfg config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Setting", "Value", "Environment"})

	timeout := cfg.OAuth.Timeout.String()
	if cfg.OAuth.Timeout == 0 {
		timeout = "none"
	}
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = "(stderr)"
	}

	t.AppendRows([]table.Row{
		{"Client ID", maskClientID(cfg.OAuth.ClientID), "DREMIO_CLIENT_ID"},
		{"Redirect URI", cfg.OAuth.RedirectURI, "DREMIO_REDIRECT_URI"},
		{"Authorization URL", cfg.OAuth.AuthorizationURL, "DREMIO_AUTH_URL"},
		{"Token URL", cfg.OAuth.TokenURL, "DREMIO_TOKEN_URL"},
		{"Token request encoding", cfg.OAuth.TokenRequestEncoding, "DREMIO_TOKEN_REQUEST_ENCODING"},
		{"Callback timeout", timeout, "DREMIO_AUTH_TIMEOUT"},
		{"Open browser", cfg.OAuth.OpenBrowser, "DREMIO_OPEN_BROWSER"},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Log level", cfg.Logging.Level, "LOG_LEVEL"},
		{"Log file", logFile, "LOG_FILE"},
	})

	t.Render()
}

// maskClientID keeps the first four characters of id.
func maskClientID(id string) string {
	switch {
	case id == "":
		return text.FgYellow.Sprint("(not set)")
	case len(id) <= 4:
		return strings.Repeat("*", len(id))
	default:
		return id[:4] + strings.Repeat("*", len(id)-4)
	}
}
