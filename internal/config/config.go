package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

type Config struct {
	// Server
	Host string
	Port string
	Env  string

	// Logging
	LogLevel string

	// Groq
	GroqAPIKey  string
	GroqBaseURL string

	// Events (optional)
	RedisURL      string
	EventsChannel string

	// Server timeouts, in seconds
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Host:             getEnvOrDefault("HOST", "0.0.0.0"),
		Port:             getEnvOrDefault("PORT", "8000"),
		Env:              getEnvOrDefault("ENV", "development"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		GroqAPIKey:       mustGetEnv("GROQ_API_KEY"),
		GroqBaseURL:      getEnvOrDefault("GROQ_BASE_URL", DefaultGroqBaseURL),
		RedisURL:         getEnvOrDefault("REDIS_URL", ""),
		EventsChannel:    getEnvOrDefault("EVENTS_CHANNEL", "chat_events"),
		ReadTimeoutSecs:  getEnvAsIntOrDefault("READ_TIMEOUT_SECONDS", 15),
		WriteTimeoutSecs: getEnvAsIntOrDefault("WRITE_TIMEOUT_SECONDS", 120),
	}

	return cfg
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// EventsEnabled reports whether chat outcome events are published to Redis.
func (c *Config) EventsEnabled() bool {
	return c.RedisURL != ""
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
