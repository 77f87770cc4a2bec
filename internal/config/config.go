package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Queue    QueueConfig
	API      APIConfig
	Worker   WorkerConfig
	Dispatch DispatchConfig
	Aligo    AligoConfig
	Solapi   SolapiConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// QueueConfig holds queue configuration (Redis)
type QueueConfig struct {
	RedisURL  string
	QueueName string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port int
}

// WorkerConfig holds worker configuration
type WorkerConfig struct {
	Concurrency int
}

// DispatchConfig holds send-path configuration
type DispatchConfig struct {
	MaxAttempts     int
	RetryBaseDelay  time.Duration
	DefaultProvider string
	BulkChunkSize   int
}

// AligoConfig holds Aligo aggregator credentials
type AligoConfig struct {
	BaseURL string
	APIKey  string
	UserID  string
	Sender  string
}

// SolapiConfig holds Solapi aggregator credentials
type SolapiConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Sender    string
	PfID      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	workerConcurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	maxAttempts, err := strconv.Atoi(getEnv("SEND_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_MAX_ATTEMPTS: %w", err)
	}

	retryBaseMs, err := strconv.Atoi(getEnv("SEND_RETRY_BASE_MS", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_RETRY_BASE_MS: %w", err)
	}

	bulkChunkSize, err := strconv.Atoi(getEnv("BULK_CHUNK_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid BULK_CHUNK_SIZE: %w", err)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "tour_admin"),
			Password: getEnv("DB_PASSWORD", "tour_admin"),
			DBName:   getEnv("DB_NAME", "tour_admin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Queue: QueueConfig{
			RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379/0"),
			QueueName: getEnv("QUEUE_NAME", "bulk_sends"),
		},
		API: APIConfig{
			Port: apiPort,
		},
		Worker: WorkerConfig{
			Concurrency: workerConcurrency,
		},
		Dispatch: DispatchConfig{
			MaxAttempts:     maxAttempts,
			RetryBaseDelay:  time.Duration(retryBaseMs) * time.Millisecond,
			DefaultProvider: getEnv("SMS_PROVIDER", "aligo"),
			BulkChunkSize:   bulkChunkSize,
		},
		Aligo: AligoConfig{
			BaseURL: getEnv("ALIGO_BASE_URL", "https://apis.aligo.in"),
			APIKey:  os.Getenv("ALIGO_API_KEY"),
			UserID:  os.Getenv("ALIGO_USER_ID"),
			Sender:  os.Getenv("ALIGO_SENDER"),
		},
		Solapi: SolapiConfig{
			BaseURL:   getEnv("SOLAPI_BASE_URL", "https://api.solapi.com"),
			APIKey:    os.Getenv("SOLAPI_API_KEY"),
			APISecret: os.Getenv("SOLAPI_API_SECRET"),
			Sender:    os.Getenv("SOLAPI_SENDER"),
			PfID:      os.Getenv("SOLAPI_PF_ID"),
		},
	}, nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
