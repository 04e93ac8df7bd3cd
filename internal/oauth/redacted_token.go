package oauth

import "log/slog"

const redacted = "[REDACTED]"

// RedactedToken wraps an access token so it cannot leak into logs or error text.
//
//	token := oauth.NewRedactedToken(tok.AccessToken)
//	logging.Debug("OAuthFlow", "Issued %s", token) // Issued [REDACTED]
type RedactedToken struct {
	value string
}

// NewRedactedToken creates a new RedactedToken wrapping the given value.
func NewRedactedToken(value string) RedactedToken {
	return RedactedToken{value: value}
}

// Value returns the actual token value. Never log the result.
func (t RedactedToken) Value() string {
	return t.value
}

// IsEmpty returns true if the token value is empty.
func (t RedactedToken) IsEmpty() bool {
	return t.value == ""
}

// String implements fmt.Stringer.
func (t RedactedToken) String() string {
	return redacted
}

// GoString implements fmt.GoStringer for %#v formatting.
func (t RedactedToken) GoString() string {
	return "oauth.RedactedToken{" + redacted + "}"
}

// LogValue implements slog.LogValuer.
func (t RedactedToken) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalJSON implements json.Marshaler.
func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
