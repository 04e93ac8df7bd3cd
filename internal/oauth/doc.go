// Package oauth implements the OAuth2 authorization-code flow for command-line
// use with a public client.
//
// # Flow
//
// A Coordinator runs one attempt:
//
//  1. It validates the AuthConfig (the client id must be set).
//  2. It binds a CallbackServer on the port of the redirect URI.
//  3. It prints the authorization URL from BuildAuthorizationURL and tries to
//     open it in the browser.
//  4. It blocks until the callback handler publishes a result on the
//     AuthSession, the timeout fires, or the context is cancelled.
//  5. It stops the listener and returns the token or error.
//
// The callback handler runs the code-for-token exchange (ExchangeClient)
// synchronously, so the browser page finishes loading only after the token
// endpoint has answered.
//
// # Sessions
//
// An AuthSession is owned by one Coordinator run and handed to the listener's
// handler. Its result is write-once: the first Complete or Fail wins and closes
// Done; later callbacks are answered with "callback already processed".
//
// # Errors
//
//   - *ConfigError: invalid configuration, reported before any network activity
//   - *CallbackError: redirect without a code, or with a provider error
//   - *ExchangeError: non-2xx or unusable token response
//   - *NetworkError: the token endpoint could not be reached
//   - ErrCallbackTimeout: no redirect before the configured timeout
//
// # Usage
//
//	cfg := oauth.AuthConfig{
//	    ClientID:              clientID,
//	    RedirectURI:           "http://localhost:8000/callback",
//	    AuthorizationEndpoint: "https://app.dremio.cloud/oauth/authorize",
//	    TokenEndpoint:         "https://login.dremio.cloud/oauth/token",
//	}
//
//	token, err := oauth.NewCoordinator(cfg, oauth.WithTimeout(5*time.Minute)).Run(ctx)
//
// No state parameter or PKCE challenge is sent.
package oauth
