package config

import (
	"fmt"
	"path/filepath"
)

// Error types reported in ConfigurationError.ErrorType.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeEnv        = "env"
	ErrorTypeValidation = "validation"
)

// ConfigurationError represents a structured error that occurs during configuration loading
type ConfigurationError struct {
	FilePath  string `json:"filePath"`  // Full path to the file that caused the error, empty for environment errors
	ErrorType string `json:"errorType"` // Type of error (io, parse, env, validation)
	Message   string `json:"message"`   // Human-readable error message
	Err       error  `json:"-"`
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.FilePath == "" {
		return fmt.Sprintf("[%s] %s", ce.ErrorType, ce.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", ce.ErrorType, filepath.Base(ce.FilePath), ce.Message)
}

// Unwrap returns the underlying error, if any.
func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}

// NewConfigurationError creates a new configuration error with basic information
func NewConfigurationError(filePath, errorType, message string, err error) *ConfigurationError {
	return &ConfigurationError{
		FilePath:  filePath,
		ErrorType: errorType,
		Message:   message,
		Err:       err,
	}
}
