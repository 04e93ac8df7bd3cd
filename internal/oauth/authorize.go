package oauth

import (
	"golang.org/x/oauth2"
)

// oauth2Config maps an AuthConfig onto golang.org/x/oauth2's client description.
// No client secret is set: this is a public client.
func oauth2Config(cfg AuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthorizationEndpoint,
			TokenURL:  cfg.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// BuildAuthorizationURL returns the provider URL the user has to visit:
//
//	{authorizationEndpoint}?response_type=code&client_id={clientID}&redirect_uri={redirectURI}
//
// Values are URL-encoded. No state or PKCE challenge is attached.
// The caller is responsible for validating that ClientID is set.
func BuildAuthorizationURL(cfg AuthConfig) string {
	// An empty state makes AuthCodeURL omit the parameter entirely.
	return oauth2Config(cfg).AuthCodeURL("")
}
