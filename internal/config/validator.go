package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/syntaxpresso/core/internal/catalog"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

// maxFileSizeLimit caps scan.max_file_size
const maxFileSizeLimit = 100 * 1024 * 1024

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Failures are ConfigErrors naming the offending setting.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validatePersistence(cfg.Persistence); err != nil {
		return coreerrors.NewConfigError("persistence.package", cfg.Persistence.Package, err)
	}

	if err := v.validateIndent(cfg.Format.Indent); err != nil {
		return coreerrors.NewConfigError("format.indent", fmt.Sprintf("%q", cfg.Format.Indent), err)
	}

	if _, err := catalog.LookupCollection(cfg.Relationships.CollectionType); err != nil {
		return coreerrors.NewConfigError("relationships.collection_type", cfg.Relationships.CollectionType, err)
	}

	if err := v.validateScan(&cfg.Scan); err != nil {
		return err
	}

	if err := v.validateSourceDirectory(cfg.Source.MainDirectory); err != nil {
		return coreerrors.NewConfigError("source.main_directory", cfg.Source.MainDirectory, err)
	}
	if err := v.validateSourceDirectory(cfg.Source.TestDirectory); err != nil {
		return coreerrors.NewConfigError("source.test_directory", cfg.Source.TestDirectory, err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validatePersistence(p Persistence) error {
	switch p.Package {
	case JakartaPersistence, JavaxPersistence:
		return nil
	default:
		return fmt.Errorf("must be %s or %s", JakartaPersistence, JavaxPersistence)
	}
}

func (v *Validator) validateIndent(indent string) error {
	if indent == "" {
		return errors.New("indent cannot be empty")
	}
	if strings.Trim(indent, " \t") != "" {
		return errors.New("indent may only contain spaces or tabs")
	}
	return nil
}

func (v *Validator) validateScan(scan *Scan) error {
	if scan.MaxWorkers < 0 {
		return coreerrors.NewConfigError("scan.max_workers", fmt.Sprint(scan.MaxWorkers),
			errors.New("cannot be negative"))
	}

	if scan.MaxFileSize <= 0 || scan.MaxFileSize > maxFileSizeLimit {
		return coreerrors.NewConfigError("scan.max_file_size", fmt.Sprint(scan.MaxFileSize),
			fmt.Errorf("must be between 1 byte and %d bytes", maxFileSizeLimit))
	}

	for _, pattern := range scan.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return coreerrors.NewConfigError("scan.exclude", pattern, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// validateSourceDirectory requires a relative path that stays inside the
// project
func (v *Validator) validateSourceDirectory(dir string) error {
	if dir == "" {
		return errors.New("directory cannot be empty")
	}
	if !filepath.IsLocal(filepath.FromSlash(dir)) {
		return errors.New("must be a relative path inside the project")
	}
	return nil
}

func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Scan.MaxWorkers == 0 {
		cfg.Scan.MaxWorkers = cfg.Scan.Workers()
	}
	if cfg.Persistence.Origin == "" {
		cfg.Persistence.Origin = SourceDefault
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
