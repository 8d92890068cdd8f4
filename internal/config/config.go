// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Storage     StorageConfig
	Realtime    RealtimeConfig
	Storefront  StorefrontConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	CORSOrigins  []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// DSN renders the connection in libpq key/value form. Values that are empty
// or contain spaces, quotes or backslashes are single-quoted.
func (d *DatabaseConfig) DSN() string {
	pairs := []struct{ key, value string }{
		{"host", d.Host},
		{"port", d.Port},
		{"user", d.User},
		{"password", d.Password},
		{"dbname", d.Database},
		{"sslmode", d.SSLMode},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.key+"="+dsnValue(p.value))
	}
	return strings.Join(parts, " ")
}

func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\\t") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
}

type AuthConfig struct {
	AdminEmail           string
	AdminInitialPassword string
	MinPasswordLength    int
}

type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	PublicBaseURL   string
	LocalDir        string
	MaxImageSize    int64 // in bytes
}

type RealtimeConfig struct {
	Enabled      bool
	MinReconnect int // in seconds
	MaxReconnect int // in seconds
	PingInterval int // in seconds
}

type StorefrontConfig struct {
	WhatsAppPhone string
	Currency      string
	Locale        string
}

const defaultJWTSecret = "change-me-in-production"

func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads an optional env file before resolving the environment.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		// Load .env file if it exists
		godotenv.Load()
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			CORSOrigins:  getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "kicks_catalog"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 12),
		},
		Auth: AuthConfig{
			AdminEmail:           getEnv("ADMIN_EMAIL", "admin@kicks.com"),
			AdminInitialPassword: getEnv("ADMIN_INITIAL_PASSWORD", ""),
			MinPasswordLength:    getEnvAsInt("ADMIN_MIN_PASSWORD_LENGTH", 6),
		},
		Storage: StorageConfig{
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("STORAGE_BUCKET", "product-images"),
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			PublicBaseURL:   strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads"), "/"),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "./uploads"),
			MaxImageSize:    int64(getEnvAsInt("STORAGE_MAX_IMAGE_MB", 10)) * 1024 * 1024,
		},
		Realtime: RealtimeConfig{
			Enabled:      getEnvAsBool("REALTIME_ENABLED", true),
			MinReconnect: getEnvAsInt("REALTIME_MIN_RECONNECT", 10),
			MaxReconnect: getEnvAsInt("REALTIME_MAX_RECONNECT", 60),
			PingInterval: getEnvAsInt("REALTIME_PING_INTERVAL", 90),
		},
		Storefront: StorefrontConfig{
			WhatsAppPhone: getEnv("STOREFRONT_WHATSAPP_PHONE", "59800000000"),
			Currency:      getEnv("STOREFRONT_CURRENCY", "UYU"),
			Locale:        getEnv("STOREFRONT_LOCALE", "es-UY"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Storage.Bucket == "" {
		return fmt.Errorf("database host and storage bucket are required")
	}

	if c.JWT.SecretKey == defaultJWTSecret && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Auth.MinPasswordLength < 1 {
		return fmt.Errorf("minimum password length must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
