package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileNames are the names searched for in the working directory (in order).
var ConfigFileNames = []string{"koenote.yaml", "koenote.yml", "koenote.toml"}

// DefaultDotEnvFile is the .env file read from the working directory.
const DefaultDotEnvFile = ".env"

// LoadOptions controls LoadAll.
type LoadOptions struct {
	// ConfigFile is an explicit config file path. When empty, KOENOTE_CONFIG
	// and then the working directory are consulted.
	ConfigFile string

	// DotEnvFile is the .env path. Defaults to DefaultDotEnvFile.
	DotEnvFile string

	// Dir is the directory searched for config and .env files. Defaults to
	// the working directory.
	Dir string
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, column %d): %s", e.Path, e.Line, e.Column, e.Message)
	}
	return e.Path + ": " + e.Message
}

// FindConfigFile searches dir for one of ConfigFileNames.
// Returns an empty string if none exists.
func FindConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile loads a Config from a YAML or TOML file. The format is chosen by
// extension; anything other than .toml is parsed as YAML.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			var perr toml.ParseError
			if errors.As(err, &perr) {
				return nil, &ConfigError{
					Path:    path,
					Line:    perr.Position.Line,
					Column:  perr.Position.Col,
					Message: perr.Message,
				}
			}
			if errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			return nil, &ConfigError{Path: path, Message: err.Error()}
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &ConfigError{Path: path, Message: err.Error()}
		}
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// LoadAll loads configuration from all sources and merges them.
// Precedence: env > .env > config file > defaults. Flags are applied by the
// caller on top of the result.
func LoadAll(opts LoadOptions) (*Config, error) {
	cfg := NewDefault()

	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		dir = cwd
	}

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = FindConfigFile(dir)
	}
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		MergeConfig(cfg, fileCfg, SourceFile)
		cfg.Sources["configFile"] = path
	}

	dotEnv := opts.DotEnvFile
	if dotEnv == "" {
		dotEnv = filepath.Join(dir, DefaultDotEnvFile)
	}
	if err := LoadDotEnv(cfg, dotEnv); err != nil {
		return nil, err
	}

	LoadEnvConfig(cfg)
	return cfg, nil
}

// LoadDotEnv applies the variables of a .env file to cfg. A missing file is
// not an error. Process environment variables still take precedence because
// LoadEnvConfig runs afterwards.
func LoadDotEnv(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	ApplyEnv(cfg, func(key string) string { return vars[key] }, SourceDotEnv)
	return nil
}

// LoadEnvConfig loads configuration from process environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *Config) {
	ApplyEnv(cfg, os.Getenv, SourceEnv)
}

// ApplyEnv applies KOENOTE_* variables (and their legacy fallbacks) read
// through getenv, recording source for every value it sets.
func ApplyEnv(cfg *Config, getenv func(string) string, source string) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	lookup := func(keys ...string) string {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				return v
			}
		}
		return ""
	}
	setInt := func(field string, dst *int, keys ...string) {
		if v := lookup(keys...); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
				cfg.Sources[field] = source
			}
		}
	}
	setString := func(field string, dst *string, keys ...string) {
		if v := lookup(keys...); v != "" {
			*dst = v
			cfg.Sources[field] = source
		}
	}

	setInt("port", &cfg.Port, EnvPort)
	setInt("readTimeout", &cfg.ReadTimeout, EnvReadTimeout)
	setInt("writeTimeout", &cfg.WriteTimeout, EnvWriteTimeout)
	setInt("backendTimeout", &cfg.BackendTimeout, EnvBackendTimeout)
	setString("backendUrl", &cfg.BackendURL, EnvBackendURL, LegacyEnvBackendURL)
	setString("apiKey", &cfg.APIKey, EnvAPIKey, LegacyEnvAPIKey)
	setString("audioBucketName", &cfg.AudioBucketName, EnvAudioBucketName, LegacyEnvAudioBucketName)
	setString("awsRegion", &cfg.AWSRegion, EnvAWSRegion, LegacyEnvAWSRegion)
	setString("logLevel", &cfg.LogLevel, EnvLogLevel)
	setString("logFormat", &cfg.LogFormat, EnvLogFormat)

	if v := getenv(EnvMode); v != "" {
		cfg.Mode = Mode(v)
		cfg.Sources["mode"] = source
	} else if v := getenv(LegacyEnvNodeEnv); v != "" {
		cfg.Mode = ModeFromNodeEnv(v)
		cfg.Sources["mode"] = source
	}

	if v := getenv(EnvCORSOrigins); v != "" {
		cfg.CORSOrigins = SplitList(v)
		cfg.Sources["corsOrigins"] = source
	}
}

// SplitList splits a comma-separated list, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
