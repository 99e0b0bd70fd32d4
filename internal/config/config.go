package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	NATS        NATSConfig
	Storage     StorageConfig
	LogLevel    string
	// PendingLimit caps the candidate pool fetched per pending resolution
	PendingLimit int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NATSConfig enables stage-completed event publishing; empty URL disables it
type NATSConfig struct {
	URL     string
	Subject string
}

// StorageConfig is used for attachment uploads; empty endpoint means the
// upload endpoint returns 503
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL returned to clients, e.g. https://files.ssg-mis.local
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PENDING_LIMIT", 500)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "dispatch"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		NATS: NATSConfig{
			URL:     strings.TrimSpace(getEnvOrViper("NATS_URL", "")),
			Subject: getEnvOrViper("NATS_SUBJECT", "dispatch.stage.completed"),
		},
		Storage: StorageConfig{
			Endpoint:  strings.TrimSpace(getEnvOrViper("STORAGE_ENDPOINT", "")),
			AccessKey: getEnvOrViper("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnvOrViper("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnvOrViper("STORAGE_BUCKET", "dispatch-attachments"),
			UseSSL:    getEnvOrViper("STORAGE_USE_SSL", "false") == "true",
			PublicURL: strings.TrimRight(getEnvOrViper("STORAGE_PUBLIC_URL", ""), "/"),
		},
		LogLevel:     getEnvOrViper("LOG_LEVEL", "info"),
		PendingLimit: viper.GetInt("PENDING_LIMIT"),
	}

	if cfg.PendingLimit <= 0 {
		cfg.PendingLimit = 500
	}

	// Validate required fields
	if cfg.Database.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
