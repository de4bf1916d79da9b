package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"development", ModeDevelopment, false},
		{"DEV", ModeDevelopment, false},
		{"production", ModeProduction, false},
		{"prod", ModeProduction, false},
		{"", ModeProduction, false},
		{"staging", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeFromNodeEnv(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ModeDevelopment, ModeFromNodeEnv("development"))
	assert.Equal(t, ModeProduction, ModeFromNodeEnv("production"))
	assert.Equal(t, ModeProduction, ModeFromNodeEnv("test"))
	assert.True(t, ModeDevelopment.IsDevelopment())
	assert.False(t, ModeProduction.IsDevelopment())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port 70000 is out of range"},
		{"negative read timeout", func(c *Config) { c.ReadTimeout = -1 }, "readTimeout -1 is out of range"},
		{"write timeout too high", func(c *Config) { c.WriteTimeout = 9999 }, "writeTimeout 9999 is out of range"},
		{"backend timeout negative", func(c *Config) { c.BackendTimeout = -3 }, "backendTimeout -3 is out of range"},
		{"unknown mode", func(c *Config) { c.Mode = "staging" }, `unknown mode "staging"`},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, `logFormat "xml" is not supported`},
		{"empty backend url allowed", func(c *Config) { c.BackendURL = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Warnings(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	assert.Len(t, cfg.Warnings(), 2)

	cfg.BackendURL = "not a url"
	cfg.APIKey = "k"
	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not an absolute URL")

	cfg.BackendURL = "https://api.example.com/prod"
	assert.Empty(t, cfg.Warnings())
}

func TestConfig_ResolvedMode(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	assert.Equal(t, ModeProduction, cfg.ResolvedMode())
	cfg.Mode = "dev"
	assert.Equal(t, ModeDevelopment, cfg.ResolvedMode())
	cfg.Mode = "bogus"
	assert.Equal(t, ModeProduction, cfg.ResolvedMode())
}

func TestMergeConfig(t *testing.T) {
	t.Parallel()

	t.Run("merges non-zero values", func(t *testing.T) {
		t.Parallel()
		target := NewDefault()
		source := &Config{
			Port:        8080,
			BackendURL:  "https://api.example.com",
			Mode:        ModeDevelopment,
			CORSOrigins: []string{"http://localhost:3000"},
		}

		MergeConfig(target, source, SourceFile)

		assert.Equal(t, 8080, target.Port)
		assert.Equal(t, "https://api.example.com", target.BackendURL)
		assert.Equal(t, ModeDevelopment, target.Mode)
		assert.Equal(t, []string{"http://localhost:3000"}, target.CORSOrigins)
		assert.Equal(t, SourceFile, target.Sources["port"])
		assert.Equal(t, SourceFile, target.Sources["mode"])
	})

	t.Run("does not overwrite with zero values", func(t *testing.T) {
		t.Parallel()
		target := NewDefault()

		MergeConfig(target, &Config{}, SourceFile)

		assert.Equal(t, DefaultPort, target.Port)
		assert.Equal(t, SourceDefault, target.Sources["port"])
	})

	t.Run("nil source is ignored", func(t *testing.T) {
		t.Parallel()
		target := NewDefault()
		MergeConfig(target, nil, SourceFile)
		assert.Equal(t, DefaultPort, target.Port)
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "koenote.yaml", `
port: 8081
backendUrl: https://api.example.com/prod
apiKey: secret
mode: development
corsOrigins:
  - http://localhost:3000
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 8081, cfg.Port)
		assert.Equal(t, "https://api.example.com/prod", cfg.BackendURL)
		assert.Equal(t, "secret", cfg.APIKey)
		assert.Equal(t, ModeDevelopment, cfg.Mode)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	})

	t.Run("toml", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "koenote.toml", `
port = 8082
backendUrl = "https://api.example.com/dev"
audioBucketName = "koenoto-audio"
awsRegion = "ap-northeast-1"
`)
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 8082, cfg.Port)
		assert.Equal(t, "koenoto-audio", cfg.AudioBucketName)
		assert.Equal(t, "ap-northeast-1", cfg.AWSRegion)
	})

	t.Run("invalid yaml returns ConfigError", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "koenote.yaml", "port: [unclosed")
		_, err := LoadFile(path)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, path, cfgErr.Path)
	})

	t.Run("invalid toml returns ConfigError with line", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "koenote.toml", "port = 1\nbackendUrl = \n")
		_, err := LoadFile(path)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, 2, cfgErr.Line)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	t.Run("primary names win over legacy names", func(t *testing.T) {
		t.Parallel()
		env := map[string]string{
			EnvBackendURL:       "https://primary.example.com",
			LegacyEnvBackendURL: "https://legacy.example.com",
			LegacyEnvAPIKey:     "legacy-key",
			EnvPort:             "4000",
			EnvCORSOrigins:      "http://a.test, ,http://b.test",
		}
		cfg := NewDefault()

		ApplyEnv(cfg, func(k string) string { return env[k] }, SourceEnv)

		assert.Equal(t, "https://primary.example.com", cfg.BackendURL)
		assert.Equal(t, "legacy-key", cfg.APIKey)
		assert.Equal(t, 4000, cfg.Port)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
		assert.Equal(t, SourceEnv, cfg.Sources["apiKey"])
	})

	t.Run("NODE_ENV selects mode when KOENOTE_MODE is unset", func(t *testing.T) {
		t.Parallel()
		cfg := NewDefault()
		ApplyEnv(cfg, func(k string) string {
			if k == LegacyEnvNodeEnv {
				return "development"
			}
			return ""
		}, SourceEnv)
		assert.Equal(t, ModeDevelopment, cfg.Mode)
	})

	t.Run("KOENOTE_MODE overrides NODE_ENV", func(t *testing.T) {
		t.Parallel()
		env := map[string]string{EnvMode: "production", LegacyEnvNodeEnv: "development"}
		cfg := NewDefault()
		ApplyEnv(cfg, func(k string) string { return env[k] }, SourceEnv)
		assert.Equal(t, ModeProduction, cfg.Mode)
	})

	t.Run("unparsable integers are ignored", func(t *testing.T) {
		t.Parallel()
		cfg := NewDefault()
		ApplyEnv(cfg, func(k string) string {
			if k == EnvPort {
				return "eighty"
			}
			return ""
		}, SourceEnv)
		assert.Equal(t, DefaultPort, cfg.Port)
	})
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "koenote.yaml", "port: 5000\nbackendUrl: https://file.example.com\nawsRegion: us-east-1\n")
	writeFile(t, dir, ".env", "KOENOTE_API_URL=https://dotenv.example.com\nKOENOTE_API_KEY=dotenv-key\n")
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvBackendURL, "")
	t.Setenv(LegacyEnvBackendURL, "")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := LoadAll(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "https://dotenv.example.com", cfg.BackendURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, SourceFile, cfg.Sources["port"])
	assert.Equal(t, SourceDotEnv, cfg.Sources["backendUrl"])
	assert.Equal(t, SourceEnv, cfg.Sources["apiKey"])
	assert.Equal(t, filepath.Join(dir, "koenote.yaml"), cfg.Sources["configFile"])
}

func TestLoadAll_ExplicitMissingFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	_, err := LoadAll(LoadOptions{Dir: t.TempDir(), ConfigFile: "/nonexistent/koenote.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestLoadAll_NoFiles(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvBackendURL, "")
	t.Setenv(LegacyEnvBackendURL, "")
	t.Setenv(EnvPort, "")

	cfg, err := LoadAll(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Empty(t, cfg.BackendURL)
}
