package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Assistant  AssistantConfig
	Renovation RenovationConfig
	Session    SessionConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds the interaction log database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes precedence over the parts below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	StaticDir      string // serves /static and the listing image placeholder
}

// AssistantConfig points at the conversational backend
type AssistantConfig struct {
	BaseURL string
	Timeout int // seconds
}

// RenovationConfig points at the image enhancement service
type RenovationConfig struct {
	BaseURL           string
	Timeout           int // seconds
	RequestsPerMinute float64
	Burst             int
	MaxGallery        int
}

// SessionConfig holds per-session presentation settings
type SessionConfig struct {
	Locale          string
	WaitTimeout     int // seconds, bounds ?wait=true requests
	HistoryLimit    int
	HistoryMaxLimit int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", ""),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "concierge"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
			StaticDir:      getEnv("STATIC_DIR", "./web/public"),
		},
		Assistant: AssistantConfig{
			BaseURL: strings.TrimRight(getEnv("ASSISTANT_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: getEnvAsInt("ASSISTANT_TIMEOUT", 120),
		},
		Renovation: RenovationConfig{
			BaseURL:           strings.TrimRight(getEnv("RENOVATION_BASE_URL", "http://localhost:8000"), "/"),
			Timeout:           getEnvAsInt("RENOVATION_TIMEOUT", 180),
			RequestsPerMinute: getEnvAsFloat("RENOVATION_REQUESTS_PER_MINUTE", 30),
			Burst:             getEnvAsInt("RENOVATION_BURST", 4),
			MaxGallery:        getEnvAsInt("RENOVATION_MAX_GALLERY", 4),
		},
		Session: SessionConfig{
			Locale:          strings.ToLower(getEnv("SESSION_LOCALE", "it")),
			WaitTimeout:     getEnvAsInt("SESSION_WAIT_TIMEOUT", 200),
			HistoryLimit:    getEnvAsInt("HISTORY_DEFAULT_LIMIT", 20),
			HistoryMaxLimit: getEnvAsInt("HISTORY_MAX_LIMIT", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	cfg.PostgreSQL.Enabled = getEnvAsBool("PG_ENABLED", cfg.PostgreSQL.DSN != "" || cfg.PostgreSQL.Host != "")

	if cfg.Renovation.MaxGallery <= 0 {
		return nil, fmt.Errorf("RENOVATION_MAX_GALLERY must be positive, got %d", cfg.Renovation.MaxGallery)
	}
	if cfg.Session.Locale != "it" && cfg.Session.Locale != "en" {
		return nil, fmt.Errorf("unsupported SESSION_LOCALE %q (want it or en)", cfg.Session.Locale)
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	host := c.PostgreSQL.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// AssistantTimeout returns the backend round trip timeout
func (c *Config) AssistantTimeout() time.Duration {
	return time.Duration(c.Assistant.Timeout) * time.Second
}

// RenovationTimeout returns the enhancement round trip timeout
func (c *Config) RenovationTimeout() time.Duration {
	return time.Duration(c.Renovation.Timeout) * time.Second
}

// WaitTimeout bounds how long a ?wait=true request blocks
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.Session.WaitTimeout) * time.Second
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid bool value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}
