// Package errs defines the walk engine error taxonomy
//
// Each type unwraps to a coded platform error so transports can map it to a
// status without knowing the engine types
package errs

import (
	"fmt"

	perr "sylwalk/internal/platform/errors"
)

// ValidationError reports a malformed corpus record
// Index is the zero based input position, Record the syllable text when known
type ValidationError struct {
	Index  int
	Record string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("corpus record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("corpus record %d (%q): %s", e.Index, e.Record, e.Reason)
}

// Unwrap exposes the coded form
func (e *ValidationError) Unwrap() error {
	return perr.WithField(perr.New(perr.ErrorCodeValidation, e.Error()), "records")
}

// ConfigError reports an invalid profile or graph parameter combination
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Unwrap exposes the coded form
func (e *ConfigError) Unwrap() error {
	return perr.WithField(perr.New(perr.ErrorCodeConfig, e.Error()), e.Field)
}

// Configf builds a ConfigError for field
func Configf(field, format string, a ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// NotFoundError reports an unknown syllable, either by text or by index
type NotFoundError struct {
	Syllable string
	Index    int
}

func (e *NotFoundError) Error() string {
	if e.Syllable != "" {
		return fmt.Sprintf("syllable %q not found", e.Syllable)
	}
	return fmt.Sprintf("syllable index %d not found", e.Index)
}

// Unwrap exposes the coded form
func (e *NotFoundError) Unwrap() error { return perr.NotFoundf("%s", e.Error()) }
