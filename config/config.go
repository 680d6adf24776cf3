package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level settings sourced from the environment.
type Config struct {
	Environment string
	LogLevel    string

	NatsURL string

	GeminiAPIKey string
	GeminiModel  string

	// Path to the sandbox/language JSON config; empty means search the
	// default locations (cwd and ./config).
	SandboxConfigPath string
}

func LoadConfig() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	return Config{
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOGLEVEL", "info"),

		NatsURL: getEnv("NATSURL", "nats://localhost:4222"),

		GeminiAPIKey: getEnv("GEMINIAPIKEY", ""),
		GeminiModel:  getEnv("GEMINIMODEL", "gemini-2.0-flash"),

		SandboxConfigPath: getEnv("SANDBOXCONFIG", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
