package common

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Every fatal condition is wrapped around one of
// these so callers can branch with errors.Is.
var (
	// ErrDirectoryNotFound indicates the scan root does not exist or is not a directory
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrScannerExecutionFailed indicates the external scanner could not start or exited unexpectedly
	ErrScannerExecutionFailed = errors.New("scanner execution failed")
	// ErrReportParseFailed indicates the scanner report is not valid JSON
	ErrReportParseFailed = errors.New("report parse failed")
	// ErrMissingConfiguration indicates a required identifier is absent
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrUploadFailed indicates the reporting API rejected the payload or was unreachable
	ErrUploadFailed = errors.New("upload failed")
	// ErrFindingsDetected is returned when a run succeeds but must gate the build
	ErrFindingsDetected = errors.New("findings detected")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context information
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConfigurationError represents configuration-related errors. It matches
// ErrMissingConfiguration under errors.Is when Missing is set.
type ConfigurationError struct {
	Section string
	Field   string
	Reason  string
	Missing bool
}

func (e *ConfigurationError) Error() string {
	if e.Section != "" && e.Field != "" {
		return fmt.Sprintf("configuration error in section '%s', field '%s': %s", e.Section, e.Field, e.Reason)
	} else if e.Section != "" {
		return fmt.Sprintf("configuration error in section '%s': %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Is reports whether the configuration error belongs to the given sentinel.
func (e *ConfigurationError) Is(target error) bool {
	if target == ErrInvalidConfiguration {
		return true
	}
	return e.Missing && target == ErrMissingConfiguration
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(section, field, reason string) *ConfigurationError {
	return &ConfigurationError{
		Section: section,
		Field:   field,
		Reason:  reason,
	}
}

// NewMissingConfigurationError reports a required value that was not provided.
func NewMissingConfigurationError(section, field string) *ConfigurationError {
	return &ConfigurationError{
		Section: section,
		Field:   field,
		Reason:  "required value is not set",
		Missing: true,
	}
}
