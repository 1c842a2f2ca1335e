package cli

import (
	"os"
	"path/filepath"
)

type Config struct {
	ServerURL   string // Reporting service base URL (default: http://localhost:8080)
	SessionFile string // Path to the local session database (default: ~/.opsreport/session.db)
	LogLevel    string // Log level for diagnostics on stderr (default: warn)
}

func LoadConfig() Config {
	return Config{
		ServerURL:   getEnvOrDefault("REPORTCTL_SERVER_URL", "http://localhost:8080"),
		SessionFile: getEnvOrDefault("REPORTCTL_SESSION_FILE", defaultSessionFile()),
		LogLevel:    getEnvOrDefault("REPORTCTL_LOG_LEVEL", "warn"),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(home, ".opsreport", "session.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
