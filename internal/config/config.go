package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	APP_PORT string
	APP_ENV  string
	// auth config
	JWT_SECRET string
	JWT_EXPIRE time.Duration
	// record store config
	GCP_PROJECT_ID string
	// search index config (optional, empty disables indexing)
	ELASTICSEARCH_URL string
	// import pipeline config
	IMPORT_CONCURRENCY int
	// logger config
	LOG_FILE_PATH string
}

// IsDevelopment reports whether internal error details may be exposed.
func (c *envConfig) IsDevelopment() bool {
	return c.APP_ENV == "development"
}

func LoadEnvConfig() error {
	// A missing .env file is fine in deployed environments; real env wins.
	_ = godotenv.Load()

	DefaultEnvConfig = &envConfig{
		APP_PORT:           getEnvString("APP_PORT", "5000"),
		APP_ENV:            getEnvString("APP_ENV", "production"),
		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		JWT_EXPIRE:         getEnvDuration("JWT_EXPIRE", 7*24*time.Hour),
		GCP_PROJECT_ID:     getEnvString("GCP_PROJECT_ID", "elms-local"),
		ELASTICSEARCH_URL:  getEnvString("ELASTICSEARCH_URL", ""),
		IMPORT_CONCURRENCY: getEnvInt("IMPORT_CONCURRENCY", 8),
		LOG_FILE_PATH:      getEnvString("LOG_FILE_PATH", ""),
	}

	// No fallback signing key; startup fails without one.
	if DefaultEnvConfig.JWT_SECRET == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
