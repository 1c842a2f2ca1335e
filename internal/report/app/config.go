package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string // Optional: issuer claim for tokens (default: opsreport)
	JWTSecret string // Required: shared secret for signing access tokens

	AccessTTL            time.Duration // Optional: access token lifetime (default: 8h)
	RefreshTTL           time.Duration // Optional: refresh token lifetime (default: 7 days)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./report.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("REPORT_ISSUER", "opsreport"),
		JWTSecret:            os.Getenv("REPORT_JWT_SECRET"),
		AccessTTL:            getEnvDurationOrDefault("REPORT_ACCESS_TTL", 8*time.Hour),
		RefreshTTL:           getEnvDurationOrDefault("REPORT_REFRESH_TTL", 7*24*time.Hour),
		DatabaseFile:         getEnvOrDefault("REPORT_DATABASE_FILE", "report.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
