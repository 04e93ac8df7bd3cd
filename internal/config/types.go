package config

import (
	"time"

	"dremioauth/internal/oauth"
)

// Config is the top-level configuration structure for dremio-auth.
type Config struct {
	OAuth   OAuthConfig   `yaml:"oauth"`
	Logging LoggingConfig `yaml:"logging"`
}

// OAuthConfig holds the authorization-code flow settings.
type OAuthConfig struct {
	ClientID             string        `yaml:"clientId,omitempty" env:"DREMIO_CLIENT_ID"`
	RedirectURI          string        `yaml:"redirectUri,omitempty" env:"DREMIO_REDIRECT_URI"`
	AuthorizationURL     string        `yaml:"authorizationUrl,omitempty" env:"DREMIO_AUTH_URL"`
	TokenURL             string        `yaml:"tokenUrl,omitempty" env:"DREMIO_TOKEN_URL"`
	TokenRequestEncoding string        `yaml:"tokenRequestEncoding,omitempty" env:"DREMIO_TOKEN_REQUEST_ENCODING"` // json (default) or form
	Timeout              time.Duration `yaml:"timeout,omitempty" env:"DREMIO_AUTH_TIMEOUT"`                        // 0 waits until interrupted
	OpenBrowser          bool          `yaml:"openBrowser" env:"DREMIO_OPEN_BROWSER"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty" env:"LOG_LEVEL"`
	File  string `yaml:"file,omitempty" env:"LOG_FILE"` // rotated with lumberjack when set
}

// AuthConfig converts the loaded settings into the flow's configuration.
func (c Config) AuthConfig() oauth.AuthConfig {
	return oauth.AuthConfig{
		ClientID:              c.OAuth.ClientID,
		RedirectURI:           c.OAuth.RedirectURI,
		AuthorizationEndpoint: c.OAuth.AuthorizationURL,
		TokenEndpoint:         c.OAuth.TokenURL,
		TokenRequestEncoding:  oauth.TokenRequestEncoding(c.OAuth.TokenRequestEncoding),
	}
}
