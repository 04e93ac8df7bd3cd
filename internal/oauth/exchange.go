package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"dremioauth/pkg/logging"
	strutil "dremioauth/pkg/strings"
)

// DefaultHTTPTimeout is the default timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// maxTokenResponseBytes bounds how much of a token response is read.
const maxTokenResponseBytes = 1 << 20

// TokenExchanger trades an authorization code for an access token.
type TokenExchanger interface {
	Exchange(ctx context.Context, cfg AuthConfig, code string) (*oauth2.Token, error)
}

// ExchangeClient performs the code-for-token request against the provider's
// token endpoint. It sends no client secret and never retries.
type ExchangeClient struct {
	httpClient *http.Client
	userAgent  string
}

// ExchangeOption configures an ExchangeClient.
type ExchangeOption func(*ExchangeClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ExchangeOption {
	return func(c *ExchangeClient) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent to the token endpoint.
func WithUserAgent(userAgent string) ExchangeOption {
	return func(c *ExchangeClient) {
		c.userAgent = userAgent
	}
}

// NewExchangeClient creates a new token exchange client.
func NewExchangeClient(opts ...ExchangeOption) *ExchangeClient {
	c := &ExchangeClient{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent:  "dremio-auth",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// tokenRequest is the JSON form of the authorization_code grant.
type tokenRequest struct {
	GrantType   string `json:"grant_type"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
	ClientID    string `json:"client_id"`
}

// tokenResponse is the subset of RFC 6749 section 5.1 we read.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	Scope        string `json:"scope"`
}

// Exchange sends a single POST to cfg.TokenEndpoint and returns the issued token.
//
// Errors are *NetworkError for transport failures and *ExchangeError for
// non-2xx responses or bodies without an access_token.
func (c *ExchangeClient) Exchange(ctx context.Context, cfg AuthConfig, code string) (*oauth2.Token, error) {
	req, err := c.newTokenRequest(ctx, cfg, code)
	if err != nil {
		return nil, err
	}

	logging.Debug("TokenExchange", "Exchanging authorization code at %s (encoding=%s)", cfg.TokenEndpoint, cfg.encoding())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Endpoint: cfg.TokenEndpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, &NetworkError{Endpoint: cfg.TokenEndpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExchangeError{
			StatusCode: resp.StatusCode,
			Body:       strutil.Truncate(strings.TrimSpace(string(body)), maxErrorBodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Reason: "malformed response: " + err.Error()}
	}
	if tokenResp.AccessToken == "" {
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Reason: "malformed response: missing access_token"}
	}

	return tokenResp.toOAuth2Token(), nil
}

func (c *ExchangeClient) newTokenRequest(ctx context.Context, cfg AuthConfig, code string) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch cfg.encoding() {
	case EncodingForm:
		data := url.Values{
			"grant_type":   {"authorization_code"},
			"code":         {code},
			"redirect_uri": {cfg.RedirectURI},
			"client_id":    {cfg.ClientID},
		}
		body = strings.NewReader(data.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		payload, err := json.Marshal(tokenRequest{
			GrantType:   "authorization_code",
			Code:        code,
			RedirectURI: cfg.RedirectURI,
			ClientID:    cfg.ClientID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode token request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenEndpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (r tokenResponse) toOAuth2Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
	}

	if r.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}

	extra := map[string]interface{}{}
	if r.IDToken != "" {
		extra["id_token"] = r.IDToken
	}
	if r.Scope != "" {
		extra["scope"] = r.Scope
	}
	if len(extra) > 0 {
		token = token.WithExtra(extra)
	}

	return token
}
