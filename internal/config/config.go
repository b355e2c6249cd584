package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers understood by the collection store
const (
	StorageDriverEKV      = "ekv"
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
	StorageDriverMongo    = "mongo"
)

// Capabilities toggles optional AI features of the portal
type Capabilities struct {
	AIChat  bool `yaml:"ai_chat" env:"CAP_AI_CHAT"`
	AIImage bool `yaml:"ai_image" env:"CAP_AI_IMAGE"`
	AIFeed  bool `yaml:"ai_feed" env:"CAP_AI_FEED"`
}

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string   `yaml:"port" env:"SERVER_PORT"`
		Mode        string   `yaml:"mode" env:"SERVER_MODE"`
		BaseURL     string   `yaml:"base_url" env:"SERVER_BASE_URL"`
		CORSOrigins []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver" env:"STORAGE_DRIVER"`
		Path     string `yaml:"path" env:"STORAGE_PATH"`
		Password string `yaml:"password" env:"STORAGE_PASSWORD"`

		Redis struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
			Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
		} `yaml:"redis"`

		Mongo struct {
			URI        string `yaml:"uri" env:"MONGO_URI"`
			Database   string `yaml:"database" env:"MONGO_DATABASE"`
			Collection string `yaml:"collection" env:"MONGO_COLLECTION"`
		} `yaml:"mongo"`
	} `yaml:"storage"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		SessionTokenExpiration string `yaml:"session_token_expiration" env:"JWT_SESSION_TOKEN_EXPIRATION"`
		ResetTokenExpiration   string `yaml:"reset_token_expiration" env:"JWT_RESET_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		// VerifyPasswords makes login check the stored credential.
		VerifyPasswords bool `yaml:"verify_passwords" env:"AUTH_VERIFY_PASSWORDS"`
	} `yaml:"auth"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
	} `yaml:"smtp"`

	AI struct {
		APIKey     string `yaml:"api_key" env:"AI_API_KEY"`
		BaseURL    string `yaml:"base_url" env:"AI_BASE_URL"`
		TextModel  string `yaml:"text_model" env:"AI_TEXT_MODEL"`
		ImageModel string `yaml:"image_model" env:"AI_IMAGE_MODEL"`
		Timeout    string `yaml:"timeout" env:"AI_TIMEOUT"`
		// RateLimit is the maximum number of upstream requests per second.
		RateLimit int `yaml:"rate_limit" env:"AI_RATE_LIMIT"`
	} `yaml:"ai"`

	Capabilities Capabilities `yaml:"capabilities"`

	Notifications struct {
		// ActiveSessionOnly drops notifications addressed to anyone but the logged in user.
		ActiveSessionOnly bool `yaml:"active_session_only" env:"NOTIFICATIONS_ACTIVE_SESSION_ONLY"`
	} `yaml:"notifications"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:8080"

	// Storage defaults
	config.Storage.Driver = StorageDriverEKV
	config.Storage.Path = "data/portal"
	config.Storage.Redis.Addr = "localhost:6379"
	config.Storage.Redis.Prefix = "portal:"
	config.Storage.Mongo.URI = "mongodb://localhost:27017"
	config.Storage.Mongo.Database = "collegeportal"
	config.Storage.Mongo.Collection = "collections"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "collegeportal"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.SessionTokenExpiration = "720h"
	config.JWT.ResetTokenExpiration = "30m"
	config.JWT.Issuer = "collegeportal.app"

	config.SMTP.Port = 587
	config.SMTP.FromName = "College Portal"

	// AI defaults
	config.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	config.AI.TextModel = "gemini-2.5-flash"
	config.AI.ImageModel = "imagen-3.0-generate-002"
	config.AI.Timeout = "60s"
	config.AI.RateLimit = 5

	config.Capabilities = Capabilities{AIChat: true, AIImage: true, AIFeed: true}

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Storage.Driver {
	case StorageDriverEKV:
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the %s driver", StorageDriverEKV)
		}
		if config.Storage.Password == "" {
			return fmt.Errorf("storage password is required for the %s driver", StorageDriverEKV)
		}
	case StorageDriverMemory, StorageDriverPostgres, StorageDriverRedis, StorageDriverMongo:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.SessionTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT session token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.ResetTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT reset token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.AI.Timeout); err != nil {
		return fmt.Errorf("invalid AI timeout format: %w", err)
	}

	if config.AI.RateLimit <= 0 {
		return fmt.Errorf("AI rate limit must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
