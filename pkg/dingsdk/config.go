package dingsdk

import (
	"os"
	"strconv"
)

// EnvConfig is the environment-provided configuration for processes that
// wire the client at startup. The core itself never reads the environment;
// it takes a ready store handle.
type EnvConfig struct {
	AppID             string
	AppSecret         string
	RedisURL          string
	LogLevel          string
	LogFormat         string
	RequestsPerSecond float64
}

// LoadEnvConfig reads configuration from the environment.
func LoadEnvConfig() EnvConfig {
	return EnvConfig{
		AppID:             os.Getenv("DINGTALK_APP_ID"),
		AppSecret:         os.Getenv("DINGTALK_APP_SECRET"),
		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://:@127.0.0.1:6379/1"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "json"),
		RequestsPerSecond: getEnvFloatOrDefault("DINGTALK_REQUESTS_PER_SECOND", 0),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
