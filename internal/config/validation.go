package config

import (
	"fmt"
	"strings"

	"dremioauth/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks the settings that are independent of the flow itself.
// The client id is not required here so that `config` can show an incomplete setup;
// the flow rejects a missing client id before binding the callback port.
func (c Config) Validate() error {
	var errs ValidationErrors

	if err := ValidateOneOf("oauth.tokenRequestEncoding", c.OAuth.TokenRequestEncoding, []string{"json", "form"}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if c.OAuth.Timeout < 0 {
		errs.Add("oauth.timeout", "must not be negative", c.OAuth.Timeout)
	}
	if _, err := logging.ParseLogLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", err.Error(), c.Logging.Level)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
