// Package config loads application settings from the environment through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	RabbitMQURL    string
	ListingURL     string
	TimeZone       string
	MaxUploadSize  int
	MaxRequestSize int
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "gerenciador.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LISTING_URL", "/gerenciador/produtos")
	v.SetDefault("TIME_ZONE", "UTC")
	v.SetDefault("MAX_UPLOAD_SIZE", 5*1024*1024)
	v.SetDefault("MAX_REQUEST_SIZE", 8*1024*1024)
}

// Load reads the configuration from environment variables and, when
// CONFIG_FILE is set, from that file.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		ListingURL:     v.GetString("LISTING_URL"),
		TimeZone:       v.GetString("TIME_ZONE"),
		MaxUploadSize:  v.GetInt("MAX_UPLOAD_SIZE"),
		MaxRequestSize: v.GetInt("MAX_REQUEST_SIZE"),
	}
	if cfg.MaxRequestSize <= cfg.MaxUploadSize {
		return Config{}, fmt.Errorf("MAX_REQUEST_SIZE (%d) must exceed MAX_UPLOAD_SIZE (%d)", cfg.MaxRequestSize, cfg.MaxUploadSize)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves TimeZone. "Today" in expiration-date checks and form
// dates are both interpreted in this location.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
