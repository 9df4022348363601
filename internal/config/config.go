// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Rate limiting on the auth endpoints, e.g. "10-M" for 10 requests/minute.
	AuthRateLimit string

	// CORS
	AllowedOrigins []string
}

var appConfig *Config

// Load reads configuration from environment variables, applying defaults
// for anything not set. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	viper.AutomaticEnv()

	viper.SetDefault("ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "finbook")
	viper.SetDefault("DB_PASSWORD", "finbook")
	viper.SetDefault("DB_NAME", "finbook")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("JWT_SECRET", "fallback-secret-key-for-dev-only")
	viper.SetDefault("JWT_EXPIRES_IN", "24h")
	viper.SetDefault("AUTH_RATE_LIMIT", "20-M")
	viper.SetDefault("ALLOWED_ORIGINS", "*")

	config := &Config{
		Env:            viper.GetString("ENV"),
		Port:           viper.GetString("PORT"),
		DBHost:         viper.GetString("DB_HOST"),
		DBPort:         viper.GetString("DB_PORT"),
		DBUser:         viper.GetString("DB_USER"),
		DBPassword:     viper.GetString("DB_PASSWORD"),
		DBName:         viper.GetString("DB_NAME"),
		DBSSLMode:      viper.GetString("DB_SSLMODE"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		AuthRateLimit:  viper.GetString("AUTH_RATE_LIMIT"),
		AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
	}

	expDur, err := time.ParseDuration(viper.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value %q, falling back to 24h\n", viper.GetString("JWT_EXPIRES_IN"))
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}
