package config

import "os"

// Environment variable names for configuration.
const (
	EnvPublicKey = "TRACEVIEW_PUBLIC_KEY"
	EnvSecretKey = "TRACEVIEW_SECRET_KEY"
	EnvBaseURL   = "TRACEVIEW_BASE_URL"
	EnvRegion    = "TRACEVIEW_REGION"
	EnvDebug     = "TRACEVIEW_DEBUG"
)

// GetEnvString returns the value of an environment variable or a default.
func GetEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns true if the env var is "true" or "1".
func GetEnvBool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() *Config {
	cfg := &Config{
		PublicKey: GetEnvString(EnvPublicKey, ""),
		SecretKey: GetEnvString(EnvSecretKey, ""),
		BaseURL:   GetEnvString(EnvBaseURL, ""),
		Region:    Region(GetEnvString(EnvRegion, string(RegionEU))),
		Debug:     GetEnvBool(EnvDebug),
	}
	return cfg
}
