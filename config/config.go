// Package config provides configuration for the chat backend.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full runtime configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseURL    string // sqlite DSN
	Postgres       PostgresConfig

	// n8n webhook endpoints. WebhookURL is the shared default; the
	// per-workflow overrides fall back to it when unset. An empty
	// WebhookURL disables upstream calls entirely.
	WebhookURL  string
	WebhookURL2 string
	WebhookURL3 string

	// Timeouts
	WebhookTimeout time.Duration

	// Logging
	LogLevel string
}

// PostgresConfig holds connection settings for the Postgres store.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Load reads configuration from an optional config.yaml and the
// environment. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_port", 8080)
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_url", "file:chat.db?cache=shared&mode=rwc")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("n8n_timeout_ms", 120000)
	v.SetDefault("log_level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		HTTPPort:       v.GetInt("http_port"),
		DatabaseDriver: v.GetString("database_driver"),
		DatabaseURL:    v.GetString("database_url"),
		Postgres: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetInt("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			DBName:   v.GetString("postgres.dbname"),
			SSLMode:  v.GetString("postgres.sslmode"),
		},
		WebhookURL:     v.GetString("n8n_webhook_url"),
		WebhookURL2:    v.GetString("n8n_webhook_url2"),
		WebhookURL3:    v.GetString("n8n_webhook_url3"),
		WebhookTimeout: time.Duration(v.GetInt("n8n_timeout_ms")) * time.Millisecond,
		LogLevel:       v.GetString("log_level"),
	}

	return cfg, nil
}
