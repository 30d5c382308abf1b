package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	apperrors "contact-tracer/backend/pkg/errors"
)

// DefaultContactWindowDays is the exposure window used when CONTACT_WINDOW_DAYS is unset
const DefaultContactWindowDays = 11

// Config holds all application configuration
type Config struct {
	// App
	Port     string
	Env      string
	LogLevel string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// Tracing
	ContactWindowDays int

	// Server
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, after loading .env if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", ""),
		Neo4jURI:          getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:         getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:     getEnv("NEO4J_PASSWORD", "neo4j"),
		Neo4jDatabase:     getEnv("NEO4J_DATABASE", "neo4j"),
		ContactWindowDays: getEnvInt("CONTACT_WINDOW_DAYS", DefaultContactWindowDays),
		ShutdownTimeout:   time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.ContactWindowDays <= 0 {
		return apperrors.NewConfigValidationFailed("CONTACT_WINDOW_DAYS", "must be a positive number of days")
	}
	if c.ShutdownTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("SHUTDOWN_TIMEOUT_SECONDS", "must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
