package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	MaxWorkers   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging configuration
	LogFormat string
	LogLevel  string

	// Agent configuration
	AgentAPIKey  string
	AgentModelID string
	AgentBaseURL string
	AgentTimeout time.Duration

	// Storage configuration
	S3Endpoint        string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3Region          string

	// Database configuration
	PostgresDBURL string

	// Review configuration
	PendingReviewTTL time.Duration
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Get the executable directory
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
	}

	// Determine project root directory
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	// Load .env file if it exists
	if err := godotenv.Load(envPath); err != nil {
		// Try loading from current directory as fallback
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading .env file. Using environment variables.")
		} else {
			log.Println("Loaded environment variables from current directory .env file")
		}
	} else {
		log.Printf("Loaded environment variables from %s", envPath)
	}

	// Create and populate config
	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 180)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 180)) * time.Second,

		// Logging configuration
		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		// Agent configuration
		AgentAPIKey:  os.Getenv("AGENT_API_KEY"),
		AgentModelID: getEnvString("AGENT_MODEL_ID", "google/gemini-2.5-flash"),
		AgentBaseURL: getEnvString("AGENT_BASE_URL", "https://openrouter.ai/api/v1"),
		AgentTimeout: time.Duration(getEnvInt("AGENT_TIMEOUT", 120)) * time.Second,

		// Storage configuration
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          getEnvString("S3_BUCKET", "receipts"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),

		// Database configuration
		PostgresDBURL: os.Getenv("POSTGRES_DB_URL"),

		// Review configuration
		PendingReviewTTL: time.Duration(getEnvInt("PENDING_REVIEW_TTL_MINUTES", 30)) * time.Minute,
	}

	// Validate critical configuration
	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	// Check if agent API key is provided
	if config.AgentAPIKey == "" {
		log.Println("Warning: No agent API key provided. Chat requests will fail.")
	}

	// Check if S3 storage is configured
	if config.S3Endpoint == "" {
		log.Println("Warning: No S3 endpoint provided. Image uploads will fail.")
	}

	// Check if database URL is provided
	if config.PostgresDBURL == "" {
		log.Println("Warning: No Postgres URL provided. Approved items will not be stored.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
