package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const maxTimeoutSeconds = 3600

// Validate checks value ranges and enumerations. It does not require a
// backend URL; see Warnings.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range (0-65535)", c.Port))
	}
	if c.ReadTimeout < 0 || c.ReadTimeout > maxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("readTimeout %d is out of range (0-%d)", c.ReadTimeout, maxTimeoutSeconds))
	}
	if c.WriteTimeout < 0 || c.WriteTimeout > maxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("writeTimeout %d is out of range (0-%d)", c.WriteTimeout, maxTimeoutSeconds))
	}
	if c.BackendTimeout < 0 || c.BackendTimeout > maxTimeoutSeconds {
		errs = append(errs, fmt.Errorf("backendTimeout %d is out of range (0-%d)", c.BackendTimeout, maxTimeoutSeconds))
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logFormat %q is not supported (expected text or json)", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Warnings reports settings that are legal but will make every proxied call
// fail.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.BackendURL == "" {
		warnings = append(warnings, "backendUrl is empty; every proxied request will fail")
	} else if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		warnings = append(warnings, fmt.Sprintf("backendUrl %q is not an absolute URL", c.BackendURL))
	}
	if c.APIKey == "" {
		warnings = append(warnings, "apiKey is empty; an empty x-api-key header will be sent")
	}
	return warnings
}

// ResolvedMode returns the configured mode, treating unknown values as
// production.
func (c *Config) ResolvedMode() Mode {
	m, err := ParseMode(string(c.Mode))
	if err != nil {
		return ModeProduction
	}
	return m
}
