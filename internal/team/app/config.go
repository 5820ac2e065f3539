package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer          string        // Required: expected issuer claim on access tokens
	IdentityKeyFile string        // Optional: path to PKCS8 PEM Ed25519 key; ephemeral key generated when unset
	DatabaseFile    string        // Optional: path to SQLite database file (default: ./team.db)
	InviteTTL       time.Duration // Optional: invitation lifetime (default: 7 days)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              os.Getenv("TEAM_ISSUER"),
		IdentityKeyFile:     os.Getenv("TEAM_IDENTITY_KEY_FILE"),
		DatabaseFile:        getEnvOrDefault("TEAM_DATABASE_FILE", "team.db"),
		InviteTTL:           getEnvDurationOrDefault("TEAM_INVITE_TTL", 7*24*time.Hour),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "crew-team"
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
