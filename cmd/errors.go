package cmd

// AuthFailedError indicates the OAuth flow started but did not produce a token.
type AuthFailedError struct {
	Err error
}

func (e *AuthFailedError) Error() string {
	return "authentication failed: " + e.Err.Error()
}

func (e *AuthFailedError) Unwrap() error {
	return e.Err
}
