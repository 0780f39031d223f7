package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultInferenceURL = "https://api-inference.huggingface.co/models/facebook/blenderbot-3B"

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL   string
	DBMaxConns    int
	MigrationsDir string

	// Inference gateway. An empty key disables the chat endpoint only.
	InferenceAPIKey string
	InferenceURL    string

	// CORS
	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "5000"),
		Env:             getEnvOrDefault("ENV", "development"),
		DatabaseURL:     mustGetEnv("DATABASE_URL"),
		DBMaxConns:      getEnvAsIntOrDefault("DB_MAX_CONNS", 25),
		MigrationsDir:   getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		InferenceAPIKey: os.Getenv("HF_API_KEY"),
		InferenceURL:    getEnvOrDefault("HF_MODEL_URL", DefaultInferenceURL),
		AllowedOrigins:  getEnvAsListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsListOrDefault splits a comma separated value, dropping blank entries.
func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
