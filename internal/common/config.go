package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Worker   WorkerConfig
	S3       S3Config
	OCR      OCRConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// WorkerConfig holds worker-loop configuration
type WorkerConfig struct {
	PollInterval time.Duration
	// RequeueStaleAfter, when nonzero, resets processing jobs older than
	// this back to pending once at startup.
	RequeueStaleAfter time.Duration
	MetricsAddr       string
	HealthAddr        string
}

// S3Config holds blob-store configuration
type S3Config struct {
	Endpoint       string
	PublicEndpoint string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	UsePathStyle   bool
	PresignExpiry  time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract string
	Language  string
	PSM       int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Worker: WorkerConfig{
			PollInterval:      getEnvAsDuration("WORKER_POLL_INTERVAL", 2*time.Second),
			RequeueStaleAfter: getEnvAsDuration("WORKER_REQUEUE_STALE", 0),
			MetricsAddr:       getEnv("METRICS_ADDR", ":9100"),
			HealthAddr:        getEnv("HEALTH_ADDR", ":9101"),
		},
		S3: S3Config{
			Endpoint:       getEnv("S3_ENDPOINT", ""),
			PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
			Region:         getEnv("S3_REGION", "us-east-1"),
			Bucket:         getEnv("S3_BUCKET", ""),
			AccessKey:      getEnv("S3_ACCESS_KEY", ""),
			SecretKey:      getEnv("S3_SECRET_KEY", ""),
			UsePathStyle:   getEnvAsBool("S3_USE_PATH_STYLE", true),
			PresignExpiry:  getEnvAsDuration("S3_PRESIGN_EXPIRY", 15*time.Minute),
		},
		OCR: OCRConfig{
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
			Language:  getEnv("TESSERACT_LANG", "eng"),
			PSM:       getEnvAsInt("TESSERACT_PSM", 6),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.S3.Bucket == "" {
		return NewAppError("CONFIG_ERROR", "S3_BUCKET is required", ErrInvalidInput)
	}
	if c.Worker.PollInterval <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKER_POLL_INTERVAL must be positive", ErrInvalidInput)
	}
	return nil
}
