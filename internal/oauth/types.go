package oauth

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// TokenRequestEncoding selects how the token request body is encoded.
type TokenRequestEncoding string

const (
	// EncodingJSON sends the token request as a JSON object. Dremio Cloud expects this.
	EncodingJSON TokenRequestEncoding = "json"

	// EncodingForm sends the token request as application/x-www-form-urlencoded,
	// which is what RFC 6749 specifies.
	EncodingForm TokenRequestEncoding = "form"
)

// DefaultCallbackPath is used when the redirect URI has no path.
const DefaultCallbackPath = "/callback"

// AuthConfig describes a public OAuth client and the provider endpoints it talks to.
// It is created once at startup and never modified.
type AuthConfig struct {
	// ClientID is the public client identifier registered with the provider.
	ClientID string

	// RedirectURI is the local address the provider sends the browser back to,
	// e.g. http://localhost:8000/callback. The callback listener binds its port.
	RedirectURI string

	// AuthorizationEndpoint is the provider page the user is sent to.
	AuthorizationEndpoint string

	// TokenEndpoint receives the code-for-token POST.
	TokenEndpoint string

	// TokenRequestEncoding defaults to EncodingJSON when empty.
	TokenRequestEncoding TokenRequestEncoding
}

// Validate checks that a flow can be started with this configuration.
// It returns a *ConfigError describing the first problem found.
func (c AuthConfig) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return &ConfigError{Field: "client_id", Message: "client id is required"}
	}

	if err := validateEndpoint("authorization_endpoint", c.AuthorizationEndpoint); err != nil {
		return err
	}
	if err := validateEndpoint("token_endpoint", c.TokenEndpoint); err != nil {
		return err
	}

	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return &ConfigError{Field: "redirect_uri", Message: "invalid URL: " + err.Error()}
	}
	if u.Scheme != "http" || !isLoopbackHost(u.Hostname()) {
		return &ConfigError{Field: "redirect_uri", Message: "must be an http:// URL on the local machine"}
	}
	if _, err := c.CallbackPort(); err != nil {
		return err
	}

	switch c.TokenRequestEncoding {
	case "", EncodingJSON, EncodingForm:
	default:
		return &ConfigError{
			Field:   "token_request_encoding",
			Message: "must be \"json\" or \"form\", got " + strconv.Quote(string(c.TokenRequestEncoding)),
		}
	}

	return nil
}

// CallbackPort returns the port of the redirect URI, defaulting to 80.
func (c AuthConfig) CallbackPort() (int, error) {
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return 0, &ConfigError{Field: "redirect_uri", Message: "invalid URL: " + err.Error()}
	}

	portStr := u.Port()
	if portStr == "" {
		return 80, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, &ConfigError{Field: "redirect_uri", Message: "invalid port " + strconv.Quote(portStr)}
	}
	return port, nil
}

// CallbackPath returns the path component of the redirect URI.
func (c AuthConfig) CallbackPath() string {
	u, err := url.Parse(c.RedirectURI)
	if err != nil || u.Path == "" || u.Path == "/" {
		return DefaultCallbackPath
	}
	return u.Path
}

// encoding returns the effective token request encoding.
func (c AuthConfig) encoding() TokenRequestEncoding {
	if c.TokenRequestEncoding == "" {
		return EncodingJSON
	}
	return c.TokenRequestEncoding
}

func validateEndpoint(field, raw string) error {
	if raw == "" {
		return &ConfigError{Field: field, Message: "endpoint is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ConfigError{Field: field, Message: "invalid URL: " + err.Error()}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: field, Message: "must be an absolute http(s) URL"}
	}
	if u.Scheme == "http" && !isLoopbackHost(u.Hostname()) {
		return &ConfigError{Field: field, Message: "must use https unless it points at localhost"}
	}
	return nil
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
