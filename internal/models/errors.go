package models

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError names the offending parameter. A misconfigured run is a
// programming error and is never retried or clamped.
type ConfigError struct {
	Field  string
	Reason string
}

func newConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NewConfigError builds a ConfigError for callers outside this package.
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return newConfigError(field, format, args...)
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
