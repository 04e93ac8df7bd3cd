package oauth

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthorizationURL(t *testing.T) {
	tests := []struct {
		name        string
		clientID    string
		redirectURI string
		endpoint    string
	}{
		{"dremio defaults", "abc-123", "http://localhost:8000/callback", "https://app.dremio.cloud/oauth/authorize"},
		{"values needing encoding", "id with spaces&=", "http://localhost:8000/cb?x=1", "https://idp.example.com/authorize"},
		{"custom port and path", "c", "http://127.0.0.1:9123/oauth/redirect", "https://idp.example.com/o/authorize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{
				ClientID:              tt.clientID,
				RedirectURI:           tt.redirectURI,
				AuthorizationEndpoint: tt.endpoint,
			}

			raw := BuildAuthorizationURL(cfg)
			assert.True(t, strings.HasPrefix(raw, tt.endpoint+"?"), "URL %q should start with endpoint", raw)

			u, err := url.Parse(raw)
			require.NoError(t, err)

			assert.Equal(t, url.Values{
				"response_type": {"code"},
				"client_id":     {tt.clientID},
				"redirect_uri":  {tt.redirectURI},
			}, u.Query())
		})
	}
}

func TestBuildAuthorizationURL_EndpointWithQuery(t *testing.T) {
	cfg := validConfig()
	cfg.AuthorizationEndpoint = "https://idp.example.com/authorize?tenant=acme"

	u, err := url.Parse(BuildAuthorizationURL(cfg))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "acme", q.Get("tenant"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, cfg.ClientID, q.Get("client_id"))
}

func TestBuildAuthorizationURL_NoStateOrPKCE(t *testing.T) {
	u, err := url.Parse(BuildAuthorizationURL(validConfig()))
	require.NoError(t, err)

	q := u.Query()
	for _, param := range []string{"state", "code_challenge", "code_challenge_method", "scope"} {
		assert.False(t, q.Has(param), "unexpected %s parameter", param)
	}
}
