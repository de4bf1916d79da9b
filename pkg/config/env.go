package config

// Environment variable names
const (
	EnvConfig          = "KOENOTE_CONFIG"
	EnvPort            = "KOENOTE_PORT"
	EnvReadTimeout     = "KOENOTE_READ_TIMEOUT"
	EnvWriteTimeout    = "KOENOTE_WRITE_TIMEOUT"
	EnvBackendURL      = "KOENOTE_API_URL"
	EnvAPIKey          = "KOENOTE_API_KEY"
	EnvBackendTimeout  = "KOENOTE_BACKEND_TIMEOUT"
	EnvAudioBucketName = "KOENOTE_AUDIO_BUCKET_NAME"
	EnvAWSRegion       = "KOENOTE_AWS_REGION"
	EnvMode            = "KOENOTE_MODE"
	EnvLogLevel        = "KOENOTE_LOG_LEVEL"
	EnvLogFormat       = "KOENOTE_LOG_FORMAT"
	EnvCORSOrigins     = "KOENOTE_CORS_ORIGINS"
)

// Names used by the web frontend's deployment. They are read when the
// KOENOTE_* equivalent is unset so existing environments keep working.
const (
	LegacyEnvBackendURL      = "NEXT_PUBLIC_rePr_wireless_API_URL"
	LegacyEnvAPIKey          = "NEXT_PUBLIC_API_KEY"
	LegacyEnvAudioBucketName = "NEXT_PUBLIC_AUDIO_BUCKET_NAME"
	LegacyEnvAWSRegion       = "NEXT_PUBLIC_AWS_REGION"
	LegacyEnvNodeEnv         = "NODE_ENV"
)
