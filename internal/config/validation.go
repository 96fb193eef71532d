package config

import (
	"fmt"
	"strings"

	"github.com/modu-ai/pbxpatch/internal/pbxproj"
	"github.com/modu-ai/pbxpatch/pkg/models"
)

// @MX:ANCHOR: [AUTO] Validate gates every config value before a manifest is touched
// @MX:REASON: [AUTO] fan_in=3, called from Manager.Load, cli add, validation tests
// Validate checks the configuration for correctness and returns every
// problem found as *ValidationErrors.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateGroupPolicy(cfg.OnUnknownGroup)...)
	errs = append(errs, validatePins(cfg)...)
	errs = append(errs, validateFiles(cfg.Files)...)

	if cfg.MaxIDAttempts < 0 {
		errs = append(errs, ValidationError{
			Field:   "max_id_attempts",
			Message: "must not be negative (0 uses the default)",
			Value:   cfg.MaxIDAttempts,
			Wrapped: ErrInvalidConfig,
		})
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateGroupPolicy(p models.GroupPolicy) []ValidationError {
	if p == "" || p.IsValid() {
		return nil
	}
	valid := make([]string, 0, 2)
	for _, v := range models.ValidGroupPolicies() {
		valid = append(valid, string(v))
	}
	return []ValidationError{{
		Field:   "on_unknown_group",
		Message: fmt.Sprintf("must be one of: %s", strings.Join(valid, ", ")),
		Value:   string(p),
		Wrapped: ErrInvalidGroupPolicy,
	}}
}

func validatePins(cfg *Config) []ValidationError {
	var errs []ValidationError
	for _, name := range cfg.GroupNames() {
		id := cfg.Groups[name]
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{
				Field:   "groups",
				Message: "group name must not be empty",
				Wrapped: ErrInvalidConfig,
			})
			continue
		}
		if !pbxproj.IsID(id) {
			errs = append(errs, ValidationError{
				Field:   "groups." + name,
				Message: "must be 24 uppercase hex characters",
				Value:   id,
				Wrapped: ErrInvalidIdentifier,
			})
		}
	}
	if cfg.SourcesPhase != "" && !pbxproj.IsID(cfg.SourcesPhase) {
		errs = append(errs, ValidationError{
			Field:   "sources_phase",
			Message: "must be 24 uppercase hex characters",
			Value:   cfg.SourcesPhase,
			Wrapped: ErrInvalidIdentifier,
		})
	}
	return errs
}

func validateFiles(files []models.SourceFile) []ValidationError {
	var errs []ValidationError
	for i, f := range files {
		field := fmt.Sprintf("files[%d]", i)
		if f.Name == "" && f.Path == "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "name or path is required",
				Wrapped: ErrInvalidConfig,
			})
			continue
		}
		f = f.WithDefaults()
		if _, ok := pbxproj.FileTypeForExt(f.Ext()); !ok {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "not a compilable source file",
				Value:   f.Name,
				Wrapped: pbxproj.ErrUnsupportedFileType,
			})
		}
	}
	return errs
}
