package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	DBPath         string
	SecretKey      string
	Timezone       string
	PushWebhookURL string
	SweepInterval  time.Duration
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. Every setting has a development default; production deploys
// are expected to set SECRET_KEY at minimum.
func Load() *Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", filepath.Join("data", "nocturna.db")),
		SecretKey:      getEnv("SECRET_KEY", "change_me_in_production"),
		Timezone:       getEnv("TZ", "UTC"),
		PushWebhookURL: getEnv("PUSH_WEBHOOK_URL", ""),
		SweepInterval:  getEnvAsDuration("SWEEP_INTERVAL", time.Hour),
	}
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
