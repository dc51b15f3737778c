package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string `mapstructure:"PORT"`
	DBPath             string `mapstructure:"DB_PATH"`
	SecretKey          string `mapstructure:"SECRET_KEY"`
	Timezone           string `mapstructure:"TZ"`
	DefaultLanguage    string `mapstructure:"DEFAULT_LANGUAGE"`
	CookieSecure       bool   `mapstructure:"COOKIE_SECURE"`
	VaultRoot          string `mapstructure:"VAULT_ROOT"`
	RiskScorerURL      string `mapstructure:"RISK_SCORER_URL"`
	ReminderWebhookURL string `mapstructure:"REMINDER_WEBHOOK_URL"`
	ReminderHour       int    `mapstructure:"REMINDER_HOUR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", "data/pregoway.db")
	v.SetDefault("TZ", "UTC")
	v.SetDefault("DEFAULT_LANGUAGE", "en")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("VAULT_ROOT", "data/vault")
	v.SetDefault("REMINDER_HOUR", 9)

	for _, key := range []string{
		"PORT", "DB_PATH", "SECRET_KEY", "TZ", "DEFAULT_LANGUAGE",
		"COOKIE_SECURE", "VAULT_ROOT", "RISK_SCORER_URL",
		"REMINDER_WEBHOOK_URL", "REMINDER_HOUR",
	} {
		_ = v.BindEnv(key)
	}

	// A missing .env file is fine; env vars alone are enough.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if len(c.SecretKey) < 32 {
		return fmt.Errorf("SECRET_KEY must be at least 32 characters, got %d", len(c.SecretKey))
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", c.ReminderHour)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TZ %q is not a valid location: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
