package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Addr           string
	PIN            string
	DefaultRoom    string
	HistoryBackend string // "redis" or "file"
	RedisAddr      string
	HistoryDir     string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	AIReplyMode    string // "stream" or "whole"
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:           getEnv("ADDR", ":8080"),
		PIN:            os.Getenv("CHAT_PIN"),
		DefaultRoom:    getEnv("DEFAULT_ROOM", "lobby"),
		HistoryBackend: getEnv("HISTORY_BACKEND", "redis"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		HistoryDir:     getEnv("HISTORY_DIR", "data/history"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		AIReplyMode:    getEnv("AI_REPLY_MODE", "stream"),
	}

	if cfg.PIN == "" {
		log.Fatal("Required environment variable CHAT_PIN is not set.")
	}
	if cfg.HistoryBackend != "redis" && cfg.HistoryBackend != "file" {
		log.Fatalf("Unknown HISTORY_BACKEND %q, expected redis or file.", cfg.HistoryBackend)
	}
	if cfg.AIReplyMode != "stream" && cfg.AIReplyMode != "whole" {
		log.Fatalf("Unknown AI_REPLY_MODE %q, expected stream or whole.", cfg.AIReplyMode)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
