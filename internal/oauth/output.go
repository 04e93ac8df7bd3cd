package oauth

// TokenEnvVar is the variable name callers persist the access token under.
const TokenEnvVar = "DREMIO_TOKEN"

// EnvLine returns the dotenv line suggested to the user after a successful login.
// Nothing in this package writes it anywhere.
func EnvLine(accessToken string) string {
	return TokenEnvVar + "=" + accessToken
}
