package config

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	mergeInt := func(field string, dst *int, v int) {
		if v != 0 {
			*dst = v
			target.Sources[field] = sourceType
		}
	}
	mergeString := func(field string, dst *string, v string) {
		if v != "" {
			*dst = v
			target.Sources[field] = sourceType
		}
	}

	mergeInt("port", &target.Port, source.Port)
	mergeInt("readTimeout", &target.ReadTimeout, source.ReadTimeout)
	mergeInt("writeTimeout", &target.WriteTimeout, source.WriteTimeout)
	mergeInt("backendTimeout", &target.BackendTimeout, source.BackendTimeout)
	mergeString("backendUrl", &target.BackendURL, source.BackendURL)
	mergeString("apiKey", &target.APIKey, source.APIKey)
	mergeString("audioBucketName", &target.AudioBucketName, source.AudioBucketName)
	mergeString("awsRegion", &target.AWSRegion, source.AWSRegion)
	mergeString("logLevel", &target.LogLevel, source.LogLevel)
	mergeString("logFormat", &target.LogFormat, source.LogFormat)

	if source.Mode != "" {
		target.Mode = source.Mode
		target.Sources["mode"] = sourceType
	}
	if len(source.CORSOrigins) > 0 {
		target.CORSOrigins = append([]string(nil), source.CORSOrigins...)
		target.Sources["corsOrigins"] = sourceType
	}
}
