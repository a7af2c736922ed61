package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"storefront-cms-backend/pkg/validator"
)

type Config struct {
	// Database
	MongoURI            string `validate:"required,mongouri"`
	MongoDatabase       string `validate:"required"`
	MongoConnectTimeout time.Duration
	MongoSlowQuery      time.Duration

	// Redis
	EnableRedis bool
	RedisURL    string `validate:"required_if=EnableRedis true"`
	CacheTTL    time.Duration

	// JWT
	JWTSecret         string
	AccessTokenTTL    time.Duration `validate:"gt=0"`
	RefreshTokenTTL   time.Duration `validate:"gt=0"`
	AdminUsername     string        `validate:"max=150"`
	AdminPasswordHash string
	RequireAuth       bool

	// Server
	Port        string `validate:"required,numeric"`
	Environment string `validate:"oneof=development production test"`
	LogLevel    string

	// CORS
	CORSOrigins []string

	// Rate Limiting
	RateLimitRequests int `validate:"gte=0"`
	RateLimitWindow   int `validate:"gte=0"`
	RateLimitBurst    int `validate:"gte=0"`

	// Features
	EnableMetrics bool
}

func New() *Config {
	return &Config{
		// Database
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:       getEnv("MONGO_DATABASE", "storefront"),
		MongoConnectTimeout: time.Duration(getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,
		MongoSlowQuery:      time.Duration(getEnvAsInt("MONGO_SLOW_QUERY_MS", 200)) * time.Millisecond,

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", false),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTL:    time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		// JWT
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		AccessTokenTTL:    time.Duration(getEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		RefreshTokenTTL:   time.Duration(getEnvAsInt("REFRESH_TOKEN_TTL_HOURS", 24*7)) * time.Hour,
		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		RequireAuth:       getEnvAsBool("REQUIRE_AUTH", false),

		// Server
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// CORS
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		// Features
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.RequireAuth && (c.AdminUsername == "" || c.AdminPasswordHash == "") {
		return fmt.Errorf("invalid configuration: REQUIRE_AUTH needs ADMIN_USERNAME and ADMIN_PASSWORD_HASH")
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("invalid configuration: JWT_SECRET must be set in production")
	}
	return nil
}

const defaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
