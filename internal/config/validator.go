package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	regexp "github.com/wasilibs/go-re2"
)

// oneOfFold accepts the empty string or any of values, ignoring case.
func oneOfFold(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		for _, want := range values {
			if strings.EqualFold(v, want) {
				return true
			}
		}
		return false
	}
}

// newValidator registers the custom tags used by the config structs.
func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", oneOfFold("debug", "info", "warn", "error", "fatal", "panic"))
	_ = validate.RegisterValidation("logformat", oneOfFold("console", "text", "json"))

	// Process exit statuses are 0-255 on every platform the scanners ship for.
	_ = validate.RegisterValidation("exitcodes", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Slice {
			return false
		}
		codes, ok := fl.Field().Interface().([]int)
		if !ok {
			return false
		}
		for _, c := range codes {
			if c < 0 || c > 255 {
				return false
			}
		}
		return true
	})

	_ = validate.RegisterValidation("regexlist", func(fl validator.FieldLevel) bool {
		patterns, ok := fl.Field().Interface().([]string)
		if !ok {
			return false
		}
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				return false
			}
		}
		return true
	})

	return validate
}

// ValidateConfig performs validation on the GlobalConfig structure. Every
// failing field is reported, not just the first.
func ValidateConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return common.NewValidationError("config", cfg, "config cannot be nil")
	}

	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	var result *multierror.Error
	for _, e := range errs {
		result = multierror.Append(result, newFieldError(e))
	}
	result.ErrorFormat = formatValidationErrors
	return result
}

// newFieldError converts a validator failure into a ConfigurationError keyed
// by the section struct (e.g. "SecretsConfig") and field name.
func newFieldError(e validator.FieldError) error {
	section := ""
	parts := strings.Split(e.StructNamespace(), ".")
	if len(parts) >= 3 {
		section = parts[1]
	}

	msg := fmt.Sprintf("rule '%s'", e.Tag())
	if e.Param() != "" {
		msg += fmt.Sprintf(" (expected: %s)", e.Param())
	}
	if e.Value() != nil && e.Value() != "" {
		msg += fmt.Sprintf(", actual: '%v'", e.Value())
	}
	return common.NewConfigurationError(section, e.Field(), msg)
}

func formatValidationErrors(errs []error) string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n  %s", strings.Join(lines, "\n  "))
}
