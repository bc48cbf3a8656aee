package infrastructures

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	DATABASE_URL      string
	REDIS_ADDRESS     string
	REDIS_PASSWORD    string
	WEBHOOK_SECRET    string
	SMTP_HOST         string
	SMTP_PORT         int
	SMTP_USERNAME     string
	SMTP_PASSWORD     string
	MAIL_FROM         string
	RENDERER_BASE_URL string
	WORKER_COUNT      int
	QUEUE_CAPACITY    int
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	Config = &AppConfig{
		DATABASE_URL:      os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:     os.Getenv("REDIS_ADDRESS"),
		REDIS_PASSWORD:    os.Getenv("REDIS_PASSWORD"),
		WEBHOOK_SECRET:    os.Getenv("WEBHOOK_SECRET"),
		SMTP_HOST:         os.Getenv("SMTP_HOST"),
		SMTP_PORT:         getEnvInt("SMTP_PORT", 587),
		SMTP_USERNAME:     os.Getenv("SMTP_USERNAME"),
		SMTP_PASSWORD:     os.Getenv("SMTP_PASSWORD"),
		MAIL_FROM:         getEnv("MAIL_FROM", "vouchers@localhost"),
		RENDERER_BASE_URL: getEnv("RENDERER_BASE_URL", "http://localhost:3001"),
		WORKER_COUNT:      getEnvInt("WORKER_COUNT", 4),
		QUEUE_CAPACITY:    getEnvInt("QUEUE_CAPACITY", 1024),
	}

	return Config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
