package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBPath   string
	SeedFile string
	LogLevel string

	ExpiringThreshold int
	CheckHour         int
	CheckConcurrency  int

	// AWS SNS notification target. An empty topic ARN disables SNS entirely.
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SNSTopicARN        string

	// Optional extra notification transports.
	WebhookURL    string
	WebhookFormat string
	SMTPHost      string
	SMTPPort      int
	SMTPFrom      string
	SMTPUsername  string
	SMTPPassword  string
	AlertEmail    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("APP_PORT", "5000"),
		DBPath:   getEnv("DB_PATH", "./sslmon.db"),
		SeedFile: getEnv("SEED_FILE", "seed_websites.json"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ExpiringThreshold: getEnvInt("EXPIRING_THRESHOLD", 30),
		CheckHour:         getEnvInt("CHECK_HOUR", 8),
		CheckConcurrency:  getEnvInt("CHECK_CONCURRENCY", 8),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SNSTopicARN:        getEnv("SNS_TOPIC_ARN", ""),

		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookFormat: getEnv("WEBHOOK_FORMAT", "discord"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPFrom:      getEnv("SMTP_FROM", ""),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		AlertEmail:    getEnv("ALERT_EMAIL", ""),
	}

	if cfg.ExpiringThreshold < 0 {
		return nil, fmt.Errorf("EXPIRING_THRESHOLD must be >= 0, got %d", cfg.ExpiringThreshold)
	}
	if cfg.CheckHour < 0 || cfg.CheckHour > 23 {
		return nil, fmt.Errorf("CHECK_HOUR must be between 0 and 23, got %d", cfg.CheckHour)
	}
	if cfg.WebhookFormat != "slack" && cfg.WebhookFormat != "discord" {
		return nil, fmt.Errorf("WEBHOOK_FORMAT must be slack or discord, got %q", cfg.WebhookFormat)
	}
	if cfg.CheckConcurrency < 1 {
		cfg.CheckConcurrency = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
