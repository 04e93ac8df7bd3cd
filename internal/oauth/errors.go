package oauth

import (
	"errors"
	"fmt"

	strutil "dremioauth/pkg/strings"
)

var (
	// ErrMissingCode is matched (via errors.Is) by a CallbackError raised when
	// the redirect arrived without a code parameter.
	ErrMissingCode = errors.New("no authorization code received")

	// ErrCallbackTimeout is returned when no redirect arrives before the flow timeout.
	ErrCallbackTimeout = errors.New("timed out waiting for authorization callback")

	// ErrCallbackAlreadyHandled is returned to late callback requests once the
	// session has started exchanging or has finished.
	ErrCallbackAlreadyHandled = errors.New("callback already processed")

	// ErrFlowAlreadyStarted is returned when Run is called twice on one Coordinator.
	ErrFlowAlreadyStarted = errors.New("authorization flow already started")
)

// maxErrorBodyBytes caps how much of a failed token response is kept.
const maxErrorBodyBytes = 4096

// ConfigError reports a configuration problem detected before any network activity.
type ConfigError struct {
	// Field names the offending setting.
	Field string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// CallbackError reports a redirect that cannot be exchanged: either the provider
// returned an error parameter or the code is missing.
type CallbackError struct {
	// ErrorCode is the provider's error parameter, if any (e.g. access_denied).
	ErrorCode string
	// Description is the provider's error_description parameter, if any.
	Description string
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	if e.ErrorCode == "" {
		return "callback error: " + ErrMissingCode.Error()
	}
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s - %s", e.ErrorCode, e.Description)
	}
	return "authorization failed: " + e.ErrorCode
}

// Is lets errors.Is(err, ErrMissingCode) match a callback without a code.
func (e *CallbackError) Is(target error) bool {
	return target == ErrMissingCode && e.ErrorCode == ""
}

// ExchangeError reports a token endpoint response that did not yield a token.
type ExchangeError struct {
	// StatusCode is the HTTP status returned by the token endpoint.
	StatusCode int
	// Body is the (possibly truncated) response body, kept as opaque diagnostic text.
	// Error() shows it flattened to one short line.
	Body string
	// Reason is set when the response was successful but unusable.
	Reason string
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("token exchange failed: %s (status %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, strutil.SingleLine(e.Body, strutil.DefaultSummaryLen))
}

// NetworkError reports a transport failure talking to a provider endpoint.
type NetworkError struct {
	// Endpoint is the URL that could not be reached.
	Endpoint string
	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsFlowFailure reports whether err ended an authorization attempt after it
// started, as opposed to a configuration problem that prevented the start.
func IsFlowFailure(err error) bool {
	if err == nil {
		return false
	}
	var cfgErr *ConfigError
	return !errors.As(err, &cfgErr)
}
