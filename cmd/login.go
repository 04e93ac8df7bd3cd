package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"dremioauth/internal/oauth"
)

// Login-specific flags
var (
	loginClientID  string
	loginTimeout   time.Duration
	loginNoBrowser bool
	loginQuiet     bool
)

// openBrowser launches the authorization URL. Tests replace it.
var openBrowser = oauth.OpenBrowser

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate to Dremio and print an access token",
		Long: `Authenticate to Dremio using the OAuth2 authorization-code flow.

A local listener is started on the port of the redirect URI, the authorization
page is opened in your browser, and the returned code is exchanged for an
access token. The token is printed to stdout; nothing is written to disk.

Examples:
  dremio-auth login                          # Uses DREMIO_CLIENT_ID from .env
  dremio-auth login --client-id <id>         # Explicit client id
  dremio-auth login --no-browser             # Only print the URL
  dremio-auth login --quiet >> token.txt     # Print only the token`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().StringVar(&loginClientID, "client-id", "", "OAuth client id (overrides DREMIO_CLIENT_ID)")
	cmd.Flags().DurationVar(&loginTimeout, "timeout", 0, "How long to wait for the browser redirect, 0 waits until interrupted (default from config, 5m)")
	cmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Do not open a browser; only print the authorization URL")
	cmd.Flags().BoolVarP(&loginQuiet, "quiet", "q", false, "Print only the access token")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if cmd.Flags().Changed("client-id") {
		cfg.OAuth.ClientID = loginClientID
	}
	if cmd.Flags().Changed("timeout") {
		cfg.OAuth.Timeout = loginTimeout
	}
	if loginNoBrowser {
		cfg.OAuth.OpenBrowser = false
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if !loginQuiet {
		fmt.Fprintln(stderr, "Starting Dremio OAuth flow...")
	}

	indicator := newWaitIndicator(stderr, loginQuiet)
	coordinator := oauth.NewCoordinator(cfg.AuthConfig(),
		oauth.WithTimeout(cfg.OAuth.Timeout),
		oauth.WithOpenBrowser(cfg.OAuth.OpenBrowser),
		oauth.WithBrowserOpener(openBrowser),
		oauth.WithOutput(stderr),
		oauth.WithOnAwaiting(indicator.Start),
	)

	token, err := coordinator.Run(cmd.Context())
	indicator.Stop()
	if err != nil {
		if !oauth.IsFlowFailure(err) {
			return err
		}
		if !loginQuiet {
			fmt.Fprintln(stderr, text.FgRed.Sprint("Authentication failed"))
		}
		return &AuthFailedError{Err: err}
	}

	if loginQuiet {
		fmt.Fprintln(stdout, token.AccessToken)
		return nil
	}

	fmt.Fprintln(stderr, text.FgGreen.Sprint("Authentication successful!"))
	fmt.Fprintf(stdout, "Access Token: %s\n\nAdd this to your .env file:\n%s\n", token.AccessToken, oauth.EnvLine(token.AccessToken))
	return nil
}

// waitIndicator shows a spinner while the browser flow is pending.
// It is a no-op unless w is a terminal.
type waitIndicator struct {
	s *spinner.Spinner
}

func newWaitIndicator(w io.Writer, quiet bool) *waitIndicator {
	if quiet || !isTerminal(w) {
		return &waitIndicator{}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " Waiting for browser authorization..."
	return &waitIndicator{s: s}
}

func (i *waitIndicator) Start() {
	if i.s != nil {
		i.s.Start()
	}
}

func (i *waitIndicator) Stop() {
	if i.s != nil {
		i.s.Stop()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
