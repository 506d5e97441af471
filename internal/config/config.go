package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	POS       POSConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// RateLimitConfig expresses the per-user budget as Requests per Duration seconds.
type RateLimitConfig struct {
	Requests int
	Duration int
}

// POSConfig holds point-of-sale behavior knobs
type POSConfig struct {
	IdempotencyTTL time.Duration
	TopProducts    int
}

var defaults = map[string]interface{}{
	"APP_NAME":  "kahawa-api",
	"APP_ENV":   "development",
	"APP_PORT":  "8080",
	"APP_DEBUG": true,

	"DB_HOST":     "localhost",
	"DB_PORT":     "5432",
	"DB_NAME":     "kahawa",
	"DB_USER":     "postgres",
	"DB_PASSWORD": "postgres",
	"DB_SSL_MODE": "disable",
	"DB_TIMEZONE": "Africa/Nairobi",

	"JWT_SECRET":               "change-this-secret-in-production",
	"JWT_EXPIRY_HOURS":         24,
	"JWT_REFRESH_EXPIRY_HOURS": 168,

	"CORS_ALLOWED_ORIGINS": "http://localhost:3000",

	"RATE_LIMIT_REQUESTS": 100,
	"RATE_LIMIT_DURATION": 60,

	"IDEMPOTENCY_TTL_HOURS":  24,
	"DASHBOARD_TOP_PRODUCTS": 5,
}

// Load reads .env if present, then the process environment, with the
// defaults above as the floor.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		POS: POSConfig{
			IdempotencyTTL: time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
			TopProducts:    viper.GetInt("DASHBOARD_TOP_PRODUCTS"),
		},
	}
}

// DSN renders the postgres connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.Timezone)
}
