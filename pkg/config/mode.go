package config

import (
	"fmt"
	"strings"
)

// Mode selects how proxy handlers react to a failed backend call.
type Mode string

const (
	// ModeDevelopment substitutes mock payloads for failed backend calls.
	ModeDevelopment Mode = "development"
	// ModeProduction answers failed backend calls with a 500 error body.
	ModeProduction Mode = "production"
)

// ParseMode parses a mode name. "dev" and "prod" are accepted as shorthands.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return ModeDevelopment, nil
	case "production", "prod", "":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected development or production)", s)
	}
}

// ModeFromNodeEnv maps a NODE_ENV value to a Mode. Anything other than
// "development" behaves as production.
func ModeFromNodeEnv(v string) Mode {
	if v == "development" {
		return ModeDevelopment
	}
	return ModeProduction
}

// IsDevelopment reports whether mock fallback is enabled.
func (m Mode) IsDevelopment() bool {
	return m == ModeDevelopment
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == "" {
		return string(ModeProduction)
	}
	return string(m)
}
