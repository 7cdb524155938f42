package translit

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned by a converter whose backing capability is missing.
	ErrUnavailable = errors.New("converter unavailable")

	// ErrNoOutput is returned when a converter produced an empty string for non-empty input.
	ErrNoOutput = errors.New("converter produced no output")
)

// ConverterError wraps a failure of a single converter tier.
type ConverterError struct {
	Converter string
	Rules     string
	Cause     error
}

func (e *ConverterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("converter %s (%s): %v", e.Converter, e.Rules, e.Cause)
	}
	return fmt.Sprintf("converter %s (%s) failed", e.Converter, e.Rules)
}

func (e *ConverterError) Unwrap() error {
	return e.Cause
}

// RuleError indicates a malformed or unsupported rule identifier.
type RuleError struct {
	Rules string // Full rule string as given
	ID    string // Offending transform ID, if known
}

func (e *RuleError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid rule %q in %q", e.ID, e.Rules)
	}
	return fmt.Sprintf("invalid rules %q", e.Rules)
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// ConfigError indicates an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}
