package config

import "time"

const (
	// DefaultRedirectURI is the redirect URI registered for the CLI client.
	DefaultRedirectURI = "http://localhost:8000/callback"

	// DefaultAuthorizationURL is the Dremio Cloud authorization endpoint.
	DefaultAuthorizationURL = "https://app.dremio.cloud/oauth/authorize"

	// DefaultTokenURL is the Dremio Cloud token endpoint.
	DefaultTokenURL = "https://login.dremio.cloud/oauth/token"

	// DefaultTimeout bounds how long login waits for the browser redirect.
	DefaultTimeout = 5 * time.Minute

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "warn"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	return Config{
		OAuth: OAuthConfig{
			RedirectURI:          DefaultRedirectURI,
			AuthorizationURL:     DefaultAuthorizationURL,
			TokenURL:             DefaultTokenURL,
			TokenRequestEncoding: "json",
			Timeout:              DefaultTimeout,
			OpenBrowser:          true,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}
