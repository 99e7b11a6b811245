package config

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrUnknownClient indicates an unrecognized client name.
	ErrUnknownClient = errors.New("unknown client")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNegativeValue indicates a count or duration below zero.
	ErrNegativeValue = errors.New("must not be negative")
)

// Validate checks a Config against the set of known client names.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config, clients []string) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.DefaultClient != "" && !slices.Contains(clients, cfg.DefaultClient) {
		errs = append(errs, &FieldError{
			Field: "default_client",
			Value: cfg.DefaultClient,
			Err:   ErrUnknownClient,
		})
	}

	for field, p := range map[string]string{
		"catalog_path": cfg.CatalogPath,
		"install_dir":  cfg.InstallDir,
	} {
		if err := validatePath(p); err != nil {
			errs = append(errs, &FieldError{Field: field, Value: p, Err: err})
		}
	}

	if cfg.BackupRetention < 0 {
		errs = append(errs, &FieldError{Field: "backup_retention", Value: cfg.BackupRetention, Err: ErrNegativeValue})
	}
	if cfg.SubprocessTimeout < 0 {
		errs = append(errs, &FieldError{Field: "subprocess_timeout", Value: cfg.SubprocessTimeout, Err: ErrNegativeValue})
	}
	if cfg.NetworkTimeout < 0 {
		errs = append(errs, &FieldError{Field: "network_timeout", Value: cfg.NetworkTimeout, Err: ErrNegativeValue})
	}

	// Map iteration above is unordered
	slices.SortFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths mean "use default"
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

// FieldError represents an error for a specific config field.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
