package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPListenAddr string

	DatabaseURL    string
	DatabaseSchema string
	SQLitePath     string

	BankAPIBaseURL string
	BankAPIKey     string
	BankAPITimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
	FeeCacheTTL   time.Duration

	WhatsAppEnabled   bool
	WhatsAppStorePath string
	WhatsAppLogLevel  string

	MetricsNamespace string

	TransferFromCurrency string
	TransferToCurrency   string
	ReplyGap             time.Duration
}

// Load returns configuration populated from environment variables with fallbacks.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:               getenvDefault("APP_ENV", "development"),
		LogLevel:             getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:       getenvDefault("HTTP_LISTEN_ADDR", ":8080"),
		DatabaseURL:          trimmedEnv("DATABASE_URL"),
		DatabaseSchema:       getenvDefault("DATABASE_SCHEMA", "public"),
		SQLitePath:           getenvDefault("SQLITE_PATH", "data/chat-history.db"),
		BankAPIBaseURL:       trimmedEnv("BANK_API_BASE_URL"),
		BankAPIKey:           trimmedEnv("BANK_API_KEY"),
		RedisAddr:            trimmedEnv("REDIS_ADDR"),
		RedisPassword:        trimmedEnv("REDIS_PASSWORD"),
		WhatsAppStorePath:    getenvDefault("WHATSAPP_STORE_PATH", "data/wa-store.db"),
		WhatsAppLogLevel:     getenvDefault("WHATSAPP_LOG_LEVEL", "INFO"),
		MetricsNamespace:     getenvDefault("METRICS_NAMESPACE", "bank_assist"),
		TransferFromCurrency: strings.ToUpper(getenvDefault("TRANSFER_FROM_CURRENCY", "USD")),
		TransferToCurrency:   strings.ToUpper(getenvDefault("TRANSFER_TO_CURRENCY", "PHP")),
	}

	var err error
	if cfg.BankAPITimeout, err = durationEnv("BANK_API_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.FeeCacheTTL, err = durationEnv("FEE_CACHE_TTL", "5m"); err != nil {
		return nil, err
	}
	if cfg.ReplyGap, err = durationEnv("REPLY_GAP", "500ms"); err != nil {
		return nil, err
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, convErr := strconv.Atoi(redisDBStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", convErr)
		}
		cfg.RedisDB = db
	}
	cfg.RedisTLS = strings.EqualFold(getenvDefault("REDIS_TLS", "false"), "true")
	cfg.WhatsAppEnabled = strings.EqualFold(getenvDefault("WHATSAPP_ENABLED", "false"), "true")

	if cfg.BankAPIBaseURL != "" && cfg.BankAPIKey == "" {
		return nil, fmt.Errorf("BANK_API_KEY is required when BANK_API_BASE_URL is set")
	}
	if cfg.TransferFromCurrency == "" || cfg.TransferToCurrency == "" {
		return nil, fmt.Errorf("TRANSFER_FROM_CURRENCY and TRANSFER_TO_CURRENCY cannot be empty")
	}

	cfg.BankAPIBaseURL = strings.TrimRight(cfg.BankAPIBaseURL, "/")

	return cfg, nil
}

func durationEnv(key, fallback string) (time.Duration, error) {
	raw := getenvDefault(key, fallback)
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return dur, nil
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
