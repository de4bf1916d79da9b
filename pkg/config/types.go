package config

import "time"

// Config is the complete runtime configuration of the proxy.
type Config struct {
	// Listener settings
	Port         int `yaml:"port" toml:"port" json:"port"`
	ReadTimeout  int `yaml:"readTimeout" toml:"readTimeout" json:"readTimeout"`
	WriteTimeout int `yaml:"writeTimeout" toml:"writeTimeout" json:"writeTimeout"`

	// Backend settings. An empty BackendURL is accepted; every proxied call
	// then fails and falls back according to Mode.
	BackendURL     string `yaml:"backendUrl" toml:"backendUrl" json:"backendUrl"`
	APIKey         string `yaml:"apiKey" toml:"apiKey" json:"-"`
	BackendTimeout int    `yaml:"backendTimeout" toml:"backendTimeout" json:"backendTimeout"`

	// Audio storage, exported to the UI through /koenote/client-config.
	AudioBucketName string `yaml:"audioBucketName" toml:"audioBucketName" json:"audioBucketName"`
	AWSRegion       string `yaml:"awsRegion" toml:"awsRegion" json:"awsRegion"`

	Mode Mode `yaml:"mode" toml:"mode" json:"mode"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" toml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" toml:"logFormat" json:"logFormat"`

	// CORSOrigins lists allowed browser origins. Empty disables CORS headers.
	CORSOrigins []string `yaml:"corsOrigins,omitempty" toml:"corsOrigins" json:"corsOrigins,omitempty"`

	// Sources tracks where each value came from (for the config command).
	Sources map[string]string `yaml:"-" toml:"-" json:"-"`
}

// Source identifiers recorded in Config.Sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceDotEnv  = "dotenv"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// BackendTimeoutDuration returns BackendTimeout as a time.Duration.
// Zero means the HTTP client default is used.
func (c *Config) BackendTimeoutDuration() time.Duration {
	return time.Duration(c.BackendTimeout) * time.Second
}
