package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Webhook  WebhookConfig
	Payment  PaymentConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string

	// QueueDriver selects the delivery transport: "nats" or "gochannel".
	QueueDriver string
	// StoreDriver selects the rate limit / session stores: "redis" or "memory".
	StoreDriver string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider string // "ollama" or "openai"
	LLMModel    string // e.g. "llama3", "gpt-4o-mini"
	BaseURL     string
	APIKey      string
}

type WebhookConfig struct {
	MaxAttempts int
	MaxElapsed  time.Duration
	Timeout     time.Duration
	Concurrency int
}

type PaymentConfig struct {
	MidtransServerKey string
	Production        bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			QueueDriver:        getEnv("QUEUE_DRIVER", "nats"),
			StoreDriver:        getEnv("STORE_DRIVER", "redis"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Agent Gateway"),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:    getEnv("LLM_MODEL", "llama3"),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			APIKey:      getEnv("LLM_API_KEY", ""),
		},
		Webhook: WebhookConfig{
			MaxAttempts: getEnvAsInt("WEBHOOK_MAX_ATTEMPTS", 5),
			MaxElapsed:  getEnvAsDuration("WEBHOOK_MAX_ELAPSED", 30*time.Minute),
			Timeout:     getEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),
			Concurrency: getEnvAsInt("WEBHOOK_CONCURRENCY", 4),
		},
		Payment: PaymentConfig{
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			Production:        getEnv("MIDTRANS_ENV", "sandbox") == "production",
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
