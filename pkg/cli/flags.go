package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/koenote/koenote-proxy/pkg/config"
	"github.com/koenote/koenote-proxy/pkg/logging"
)

// configFlags are the flags shared by commands that resolve configuration.
type configFlags struct {
	configFile     string
	envFile        string
	port           int
	readTimeout    int
	writeTimeout   int
	backendURL     string
	apiKey         string
	backendTimeout int
	mode           string
	logLevel       string
	logFormat      string
	corsOrigins    string
}

func (f *configFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configFile, "config", "c", "", "Path to koenote.yaml or koenote.toml")
	fs.StringVar(&f.envFile, "env-file", "", "Path to a .env file (default ./.env)")
	fs.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP listen port")
	fs.IntVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "Read timeout in seconds")
	fs.IntVar(&f.writeTimeout, "write-timeout", config.DefaultWriteTimeout, "Write timeout in seconds")
	fs.StringVar(&f.backendURL, "backend-url", "", "Backend API base URL")
	fs.StringVar(&f.apiKey, "api-key", "", "Value of the x-api-key header sent to the backend")
	fs.IntVar(&f.backendTimeout, "backend-timeout", 0, "Backend request timeout in seconds (0 = none)")
	fs.StringVar(&f.mode, "mode", "", "Runtime mode (development, production)")
	fs.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "Log format (text, json)")
	fs.StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated CORS allowed origins")
}

// load resolves the configuration and applies explicitly set flags on top.
func (f *configFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadAll(config.LoadOptions{
		ConfigFile: f.configFile,
		DotEnvFile: f.envFile,
	})
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
			cfg.Sources[flagField[name]] = config.SourceFlag
		}
	}
	set("port", func() { cfg.Port = f.port })
	set("read-timeout", func() { cfg.ReadTimeout = f.readTimeout })
	set("write-timeout", func() { cfg.WriteTimeout = f.writeTimeout })
	set("backend-url", func() { cfg.BackendURL = f.backendURL })
	set("api-key", func() { cfg.APIKey = f.apiKey })
	set("backend-timeout", func() { cfg.BackendTimeout = f.backendTimeout })
	set("mode", func() { cfg.Mode = config.Mode(f.mode) })
	set("log-level", func() { cfg.LogLevel = f.logLevel })
	set("log-format", func() { cfg.LogFormat = f.logFormat })
	set("cors-origins", func() { cfg.CORSOrigins = config.SplitList(f.corsOrigins) })

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// flagField maps flag names to Config.Sources keys.
var flagField = map[string]string{
	"port":            "port",
	"read-timeout":    "readTimeout",
	"write-timeout":   "writeTimeout",
	"backend-url":     "backendUrl",
	"api-key":         "apiKey",
	"backend-timeout": "backendTimeout",
	"mode":            "mode",
	"log-level":       "logLevel",
	"log-format":      "logFormat",
	"cors-origins":    "corsOrigins",
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
}
