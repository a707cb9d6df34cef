package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	// HTTP API
	HTTPAddr string

	// Market data (Twelve Data)
	TwelveAPIKey   string
	RequestTimeout int // seconds
	RequestsPerSec int

	// News (NewsAPI); news endpoints stay disabled while the key is empty
	NewsAPIKey   string
	NewsCacheTTL time.Duration

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Indicator defaults
	RSIPeriod int
	BBPeriod  int
	BBStdDev  float64
	ADXPeriod int
	ATRPeriod int
	EMAPeriod int
	SMAFast   int
	SMASlow   int

	// Watchlist rules
	WatchlistLimit int
	BatchAddLimit  int
	OverlayLimit   int

	SessionTTL time.Duration
	LogLevel   string
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		HTTPAddr:       getEnvWithDefault("HTTP_ADDR", ":8080"),
		TwelveAPIKey:   os.Getenv("TWELVE_API_KEY"),
		RequestTimeout: getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
		RequestsPerSec: getEnvIntWithDefault("REQUESTS_PER_SEC", 5),
		NewsAPIKey:     os.Getenv("NEWS_API_KEY"),
		NewsCacheTTL:   getEnvDurationWithDefault("NEWS_CACHE_TTL", 10*time.Minute),
		DBHost:         getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:         getEnvWithDefault("DB_PORT", "5432"),
		DBUser:         getEnvWithDefault("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnvWithDefault("DB_NAME", "marketfirewatch"),
		DBSSLMode:      getEnvWithDefault("DB_SSLMODE", "disable"),
		RSIPeriod:      getEnvIntWithDefault("RSI_PERIOD", 14),
		BBPeriod:       getEnvIntWithDefault("BB_PERIOD", 20),
		BBStdDev:       getEnvFloatWithDefault("BB_STD_DEV", 2.0),
		ADXPeriod:      getEnvIntWithDefault("ADX_PERIOD", 14),
		ATRPeriod:      getEnvIntWithDefault("ATR_PERIOD", 14),
		EMAPeriod:      getEnvIntWithDefault("EMA_PERIOD", 12),
		SMAFast:        getEnvIntWithDefault("SMA_FAST", 50),
		SMASlow:        getEnvIntWithDefault("SMA_SLOW", 200),
		WatchlistLimit: getEnvIntWithDefault("WATCHLIST_LIMIT", 25),
		BatchAddLimit:  getEnvIntWithDefault("BATCH_ADD_LIMIT", 5),
		OverlayLimit:   getEnvIntWithDefault("OVERLAY_LIMIT", 3),
		SessionTTL:     getEnvDurationWithDefault("SESSION_TTL", 24*time.Hour),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
