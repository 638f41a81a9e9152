// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret               string  `mapstructure:"JWT_SECRET"`
	Port                    string  `mapstructure:"PORT"`
	AppURL                  string  `mapstructure:"APP_URL"`
	DBHost                  string  `mapstructure:"DB_HOST"`
	DBPort                  string  `mapstructure:"DB_PORT"`
	DBUser                  string  `mapstructure:"DB_USER"`
	DBPassword              string  `mapstructure:"DB_PASSWORD"`
	DBName                  string  `mapstructure:"DB_NAME"`
	DBSSLMode               string  `mapstructure:"DB_SSLMODE"`
	RedisURL                string  `mapstructure:"REDIS_URL"`
	AllowedOrigins          string  `mapstructure:"ALLOWED_ORIGINS"`
	Env                     string  `mapstructure:"APP_ENV"`
	EmailAPIKey             string  `mapstructure:"EMAIL_API_KEY"`
	EmailFrom               string  `mapstructure:"EMAIL_FROM"`
	EmailFromName           string  `mapstructure:"EMAIL_FROM_NAME"`
	EnableEmailVerification string  `mapstructure:"ENABLE_EMAIL_VERIFICATION"`
	TracingEnabled          bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter         string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint            string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio     float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional; env vars and defaults cover development.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "production" || env == "prod" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFoundErr viper.ConfigFileNotFoundError
			if !errors.As(err, &notFoundErr) {
				return nil, fmt.Errorf("failed to merge config.%s.yml: %w", env, err)
			}
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8460")
	viper.SetDefault("APP_URL", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "dashstack")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("EMAIL_FROM", "onboarding@dashstack.dev")
	viper.SetDefault("EMAIL_FROM_NAME", "Dashstack")
	viper.SetDefault("ENABLE_EMAIL_VERIFICATION", "true")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.EmailAPIKey == "" {
			log.Println("WARNING: EMAIL_API_KEY is empty in production. Outbound email will only be logged.")
		}
	} else {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// EmailVerificationEnabled reports whether sign-up should dispatch a
// verification email. Unset defaults to true (secure by default).
func (c *Config) EmailVerificationEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(c.EnableEmailVerification))
	if v == "" {
		return true
	}
	return v == "true" || v == "1"
}

// IsProduction reports whether the app runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
