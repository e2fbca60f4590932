package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Completion provider
	AIProvider string // "openai" or "gemini"

	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Upstream call budget
	UpstreamTimeoutSecs int

	// Redis (optional; empty means in-process rate counters)
	RedisURL string

	// Chat rate limiting
	ChatRateLimit      int
	ChatRateWindowSecs int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:       getEnvOrDefault("PORT", "8080"),
		Env:        getEnvOrDefault("ENV", "development"),
		AIProvider: getEnvOrDefault("AI_PROVIDER", "openai"),

		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),

		UpstreamTimeoutSecs: getEnvAsIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 30),

		RedisURL: getEnvOrDefault("REDIS_URL", ""),

		ChatRateLimit:      getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 10),
		ChatRateWindowSecs: getEnvAsIntOrDefault("CHAT_RATE_WINDOW_SECONDS", 60),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	// The credential for the selected provider is startup-fatal when missing.
	switch cfg.AIProvider {
	case "openai":
		cfg.OpenAIAPIKey = mustGetEnv("OPENAI_API_KEY")
	case "gemini":
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	default:
		panic(fmt.Sprintf("unknown AI_PROVIDER %q (want openai or gemini)", cfg.AIProvider))
	}

	return cfg
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
