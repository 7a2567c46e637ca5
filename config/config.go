package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DbUrl    string
	RedisUrl string

	GoogleFactCheckAPIKey string
	FacebookAccessToken   string
	TelegramBotToken      string
	BackendURL            string

	AdminToken string

	MaxUploadBytes  int64
	PollIntervalSec int
}

func Load() (*Config, error) {
	godotenv.Load()

	return &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		DbUrl:    os.Getenv("DB_URL"),
		RedisUrl: os.Getenv("REDIS_URL"),

		GoogleFactCheckAPIKey: os.Getenv("GOOGLE_FACTCHECK_API_KEY"),
		FacebookAccessToken:   os.Getenv("FACEBOOK_ACCESS_TOKEN"),
		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		BackendURL:            getEnvOrDefault("BACKEND_URL", "http://localhost:8080"),

		AdminToken: getEnvOrDefault("ADMIN_TOKEN", "credinews-admin"),

		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 5*1024*1024),
		PollIntervalSec: int(getEnvInt64("POLL_INTERVAL_SEC", 300)),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
