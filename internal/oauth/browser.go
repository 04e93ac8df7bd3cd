package oauth

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/cli/browser"
)

// browserLauncher opens a URL in the user's browser. Tests replace it.
var browserLauncher = browser.OpenURL

func init() {
	// xdg-open and friends chatter on stdout, which is reserved for the token.
	browser.Stdout = io.Discard
}

// OpenBrowser opens the specified URL in the default web browser.
// Only http and https URLs are accepted.
func OpenBrowser(rawURL string) error {
	if rawURL == "" {
		return errors.New("browser URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid browser URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q", u.Scheme)
	}

	if err := browserLauncher(u.String()); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
