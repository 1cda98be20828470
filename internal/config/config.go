package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	ServerPort string

	// MongoDB settings
	MongoURI     string
	DatabaseName string

	// OpenTelemetry settings
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

// Load returns configuration from environment variables with sensible
// defaults. A .env file in the working directory is read first when present.
func Load() *Config {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("PORT", "5000"),
		MongoURI:     firstEnv([]string{"MONGODB_URI", "MONGO_URI"}, "mongodb://localhost:27017"),
		DatabaseName: getEnv("MONGODB_DATABASE", "taskdb"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "task-manager-api"),
		Environment:  getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first of the given variables that is set. Both
// MONGODB_URI and the older MONGO_URI spelling are recognized.
func firstEnv(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}
