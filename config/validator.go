package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the path to the invalid field
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateConfig validates the configuration and returns a slice of validation errors.
// An empty slice indicates the configuration is valid.
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if config == nil {
		return []ValidationError{{Path: "", Message: "config is nil"}}
	}

	errors = append(errors, validateDuration("connectTimeout", config.ConnectTimeout)...)
	errors = append(errors, validateDuration("requestTimeout", config.RequestTimeout)...)

	if config.Protocol != "" {
		if _, ok := protocols[strings.ToLower(config.Protocol)]; !ok {
			errors = append(errors, ValidationError{
				Path:    "protocol",
				Message: fmt.Sprintf("invalid protocol: %s (expected http2 or http1)", config.Protocol),
			})
		}
	}

	if config.Redirect != "" {
		if _, ok := redirectPolicies[strings.ToLower(config.Redirect)]; !ok {
			errors = append(errors, ValidationError{
				Path:    "redirect",
				Message: fmt.Sprintf("invalid redirect policy: %s (expected normal, never or always)", config.Redirect),
			})
		}
	}

	if config.MaxRedirects < 0 {
		errors = append(errors, ValidationError{
			Path:    "maxRedirects",
			Message: "maxRedirects cannot be negative",
		})
	}

	for _, name := range sortedKeys(config.Headers) {
		if !httpguts.ValidHeaderFieldName(name) {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("headers.%s", name),
				Message: "invalid header name",
			})
			continue
		}
		if !httpguts.ValidHeaderFieldValue(config.Headers[name]) {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("headers.%s", name),
				Message: "invalid header value",
			})
		}
	}

	return errors
}

func validateDuration(path, value string) []ValidationError {
	if value == "" {
		return nil
	}

	d, err := ParseDurationString(value)
	if err != nil {
		return []ValidationError{{
			Path:    path,
			Message: fmt.Sprintf("invalid duration format '%s': %v", value, err),
		}}
	}
	if d <= 0 {
		return []ValidationError{{
			Path:    path,
			Message: "duration must be positive",
		}}
	}
	return nil
}

func joinValidationErrors(errs []ValidationError) error {
	joined := make([]error, len(errs))
	for i, err := range errs {
		joined[i] = err
	}
	return errors.Join(joined...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
