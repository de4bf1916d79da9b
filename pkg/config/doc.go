// Package config provides configuration types and loading for koenote-proxy.
//
// Values come from several sources with the following precedence:
//  1. Command-line flags (highest priority, merged by the cli package)
//  2. Environment variables (KOENOTE_*, with the legacy NEXT_PUBLIC_* names
//     and NODE_ENV accepted as fallbacks)
//  3. A .env file in the working directory
//  4. A config file (koenote.yaml, koenote.yml or koenote.toml)
//  5. Default values (lowest priority)
//
// The Sources map on Config records where each value came from.
package config
