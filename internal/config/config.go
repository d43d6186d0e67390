// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration
type Config struct {
	// Environment is "development" or "production"
	Environment string `validate:"required,oneof=development production test"`

	// AWS configuration
	AWSRegion string `validate:"required"`
	TableName string `validate:"required"`
	// DynamoDBEndpoint points at DynamoDB Local when set (e.g. http://localhost:8000)
	DynamoDBEndpoint string

	// Renderer configuration
	BucketName string
	// Domain is the public domain name used to build absolute URLs in
	// rendered artifacts
	Domain string

	// API configuration
	AllowOrigin  string `validate:"required"`
	DefaultLimit int    `validate:"min=1,max=200"`
	MaxLimit     int    `validate:"min=1,max=200"`

	// Dev server configuration
	ServerAddress string
	// DevConfigPath is an optional JSON file watched for runtime overrides
	DevConfigPath string

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		AWSRegion:        getEnv("AWS_REGION", "us-east-2"),
		TableName:        getEnv("TABLE_NAME", "bruce-quotes"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		BucketName:       getEnv("BUCKET_NAME", ""),
		Domain:           getEnv("DOMAIN", ""),
		AllowOrigin:      getEnv("ALLOW_ORIGIN", "*"), // '*' for local, Terraform sets this in prod
		DefaultLimit:     getEnvInt("DEFAULT_LIMIT", 10),
		MaxLimit:         getEnvInt("MAX_LIMIT", 200),
		ServerAddress:    getEnv("SERVER_ADDRESS", ":8080"),
		DevConfigPath:    getEnv("DEV_CONFIG_PATH", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// ValidateRenderer checks the additional settings the change-feed renderer
// needs. They are optional for the API, so they are not required tags above.
func (c *Config) ValidateRenderer() error {
	if c.BucketName == "" {
		return fmt.Errorf("BUCKET_NAME is required for the renderer")
	}
	if c.Domain == "" {
		return fmt.Errorf("DOMAIN is required for the renderer")
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
