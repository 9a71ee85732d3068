package config

import (
	"os"
	"strconv"
	"time"

	"ovation/internal/cache"
	"ovation/internal/database"
	"ovation/internal/messaging"
	"ovation/internal/search"
	"ovation/internal/ticketcode"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// HoldTTL is how long a seat hold lives, counted from acquisition.
	// Re-holding the same seats resets it; there is no sliding expiry.
	HoldTTL time.Duration

	// ReaperInterval is how often the hold reaper sweeps expired holds.
	// Correctness does not depend on the value; only reclaim staleness does.
	ReaperInterval time.Duration

	// IssuanceRetryInterval is how often bookings with a pending ticket
	// code are re-submitted to the code issuer.
	IssuanceRetryInterval time.Duration

	Database database.Config
	NATS     messaging.Config
	Cache    cache.Config
	Search   search.Config

	// Issuer configures the external ticket-code service. When BaseURL is
	// empty, codes are generated in-process.
	Issuer ticketcode.Config
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		HoldTTL:               time.Duration(getEnvInt("HOLD_TTL_SEC", 300)) * time.Second,
		ReaperInterval:        time.Duration(getEnvInt("REAPER_INTERVAL_SEC", 60)) * time.Second,
		IssuanceRetryInterval: time.Duration(getEnvInt("ISSUANCE_RETRY_INTERVAL_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "ovation"),
			Password:           getEnv("DB_PASSWORD", "ovation"),
			DBName:             getEnv("DB_NAME", "ovation"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "ovation"),
			ClientID:  getEnv("NATS_CLIENT_ID", "ovation-api"),
		},

		Cache: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			EventTTL: time.Duration(getEnvInt("REDIS_EVENT_TTL_SEC", 60)) * time.Second,
		},

		Search: search.Config{
			Addresses: []string{getEnv("ELASTICSEARCH_URL", "http://localhost:9200")},
			Username:  getEnv("ELASTICSEARCH_USER", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},

		Issuer: ticketcode.Config{
			BaseURL: getEnv("ISSUER_URL", ""),
			Timeout: time.Duration(getEnvInt("ISSUER_TIMEOUT_SEC", 10)) * time.Second,
		},
	}
}

// getEnv returns the env var value or the provided default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the env var as an int or the provided default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
