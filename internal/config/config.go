package config

import (
	"os"
	"strings"
	"time"
)

// Config captures runtime configuration values for the catalog service.
type Config struct {
	HTTPAddress     string
	DatabaseURL     string
	ImageDatasetURL string
	ImageBaseURL    string
	HTTPTimeout     time.Duration
	JWTSecret       string
	JWTIssuer       string
	KafkaBrokers    []string
	EventsTopic     string
	CORSOrigin      string
}

// Load reads environment variables and applies defaults. An empty
// DATABASE_URL selects the in-memory repository; an empty JWT_SECRET disables
// authentication; empty KAFKA_BROKERS disables change events.
func Load() Config {
	return Config{
		HTTPAddress:     getEnv("HTTP_ADDRESS", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ImageDatasetURL: getEnv("IMAGE_DATASET_URL", "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/dist/exercises.json"),
		ImageBaseURL:    getEnv("IMAGE_BASE_URL", "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/exercises"),
		HTTPTimeout:     getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "ptexercise.identity"),
		KafkaBrokers:    splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		EventsTopic:     getEnv("EVENTS_TOPIC", "exercise_catalog_events"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
	}
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
