package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcpsync/internal/apps"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrNegativeDuration indicates a duration field is negative.
	ErrNegativeDuration = errors.New("duration must not be negative")

	// ErrInvalidApp indicates an override key naming no known application.
	ErrInvalidApp = errors.New("invalid application name")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}
	if cfg.Debounce < 0 {
		errs = append(errs, errors.Wrap(ErrNegativeDuration, "debounce"))
	}
	if cfg.SuppressWindow < 0 {
		errs = append(errs, errors.Wrap(ErrNegativeDuration, "suppress_window"))
	}

	for name, o := range cfg.Apps {
		if !knownApp(name) {
			errs = append(errs, errors.Wrapf(ErrInvalidApp, "%q", name))
			continue
		}
		if err := validatePath(o.Path); err != nil {
			errs = append(errs, errors.Wrapf(err, "apps.%s.path %q", name, o.Path))
		}
	}

	return errs
}

func knownApp(name string) bool {
	for _, known := range apps.Known() {
		if strings.EqualFold(known, name) {
			return true
		}
	}
	return false
}

// validatePath checks that a path string is well-formed. It does not check
// existence; an override may point at a file the application has not
// created yet.
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}
