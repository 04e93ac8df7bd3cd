package oauth

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// freePort returns a port that was free a moment ago.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

// testConfig returns a valid config whose redirect URI points at a free local port.
func testConfig(t *testing.T, tokenURL string) AuthConfig {
	t.Helper()
	return AuthConfig{
		ClientID:              "test-client",
		RedirectURI:           "http://localhost:" + strconv.Itoa(freePort(t)) + "/callback",
		AuthorizationEndpoint: "https://idp.example.com/oauth/authorize",
		TokenEndpoint:         tokenURL,
	}
}

// loopbackURL rewrites localhost to 127.0.0.1 so tests never try ::1.
func loopbackURL(raw string) string {
	return strings.Replace(raw, "://localhost:", "://127.0.0.1:", 1)
}

type browserResponse struct {
	status int
	body   string
	err    error
}

// get performs a GET and returns status and body.
func get(rawURL string) browserResponse {
	resp, err := http.Get(rawURL)
	if err != nil {
		return browserResponse{err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return browserResponse{status: resp.StatusCode, body: string(body), err: err}
}

// redirectingBrowser plays the user's browser: instead of showing the
// provider page, it immediately follows the redirect with the given query.
func redirectingBrowser(t *testing.T, query string, responses chan<- browserResponse) func(string) error {
	t.Helper()
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		redirect := loopbackURL(u.Query().Get("redirect_uri"))
		go func() {
			responses <- get(redirect + query)
		}()
		return nil
	}
}

// stubExchanger is a TokenExchanger whose behaviour is set per test.
type stubExchanger struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	token   *oauth2.Token
	err     error
}

func (s *stubExchanger) Exchange(ctx context.Context, cfg AuthConfig, code string) (*oauth2.Token, error) {
	s.calls.Add(1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.token, s.err
}
