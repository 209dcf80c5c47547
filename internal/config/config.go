package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Remote content backend (the system of record for all collections)
	RemoteAPIURL   string
	RemoteAPIToken string

	// Admin session verification (token issuance happens elsewhere)
	SessionSecret string

	// Public form rate limiting, per client IP
	FormRateLimit int // submissions per minute
	FormRateBurst int

	// S3 media storage
	S3 S3Config
}

// S3Config holds media storage configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
	PublicBaseURL   string // Optional: CDN or custom domain serving the bucket
}

// Enabled reports whether media storage is configured at all
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:            getEnv("ENV", "development"),
		RemoteAPIURL:   getEnv("REMOTE_API_URL", ""),
		RemoteAPIToken: getEnv("REMOTE_API_TOKEN", ""),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		FormRateLimit:  getEnvInt("FORM_RATE_LIMIT", 10),
		FormRateBurst:  getEnvInt("FORM_RATE_BURST", 3),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.RemoteAPIURL == "" {
		return fmt.Errorf("REMOTE_API_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
