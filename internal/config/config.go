package config

import (
	"os"
	"time"
)

type Config struct {
	Port           string
	DatabaseURL    string
	SessionTTL     time.Duration
	PasswordScheme string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	scheme := os.Getenv("PASSWORD_SCHEME")
	if scheme == "" {
		scheme = "plaintext"
	}

	return Config{
		Port:           port,
		DatabaseURL:    os.Getenv("DB_DSN"),
		SessionTTL:     readDuration("SESSION_TTL", 24*time.Hour),
		PasswordScheme: scheme,
	}
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
