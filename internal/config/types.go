// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LogFormatText renders human-readable log lines.
	LogFormatText LogFormat = "text"
	// LogFormatJSON renders one JSON object per log line.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt renders key=value log lines.
	LogFormatLogfmt LogFormat = "logfmt"
)

var (
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogFormat selects the log line encoding written to stderr.
	LogFormat string

	// InvalidLogFormatError is returned when a LogFormat value is not recognized.
	// It wraps ErrInvalidLogFormat for errors.Is() compatibility.
	InvalidLogFormatError struct {
		Value LogFormat
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Validate returns an error if the LogFormat is not one of the known formats.
func (f LogFormat) Validate() error {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return nil
	default:
		return &InvalidLogFormatError{Value: f}
	}
}

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// Error implements the error interface.
func (e *InvalidLogFormatError) Error() string {
	return fmt.Sprintf("invalid log format %q (valid: text, json, logfmt)", e.Value)
}

// Unwrap returns ErrInvalidLogFormat for errors.Is() compatibility.
func (e *InvalidLogFormatError) Unwrap() error { return ErrInvalidLogFormat }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so both the
// sentinel and the field-level sentinels match with errors.Is.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
