package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis backs token revocation and the reminder scheduler
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// OpenAI-compatible provider used for matching
	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `mapstructure:"OPENAI_BASE_URL"`
	OpenAIModel      string `mapstructure:"OPENAI_MODEL"`
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS"`

	// Reminders
	ReminderTimezone      string `mapstructure:"REMINDER_TIMEZONE"`
	ReminderMorningCron   string `mapstructure:"REMINDER_MORNING_CRON"`
	ReminderAfternoonCron string `mapstructure:"REMINDER_AFTERNOON_CRON"`
	ReminderNightCron     string `mapstructure:"REMINDER_NIGHT_CRON"`

	// R2 / S3
	R2AccountID       string `mapstructure:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"` // Custom domain
}

var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"GO_ENV":                  "development",
	"DATABASE_URL":            "",
	"JWT_SECRET":              "",
	"FRONTEND_URL":            "http://localhost:5173",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"OPENAI_API_KEY":          "",
	"OPENAI_BASE_URL":         "https://api.openai.com/v1",
	"OPENAI_MODEL":            "gpt-4o-mini",
	"AI_TIMEOUT_SECONDS":      30,
	"REMINDER_TIMEZONE":       "Africa/Nairobi",
	"REMINDER_MORNING_CRON":   "0 7 * * *",
	"REMINDER_AFTERNOON_CRON": "0 13 * * *",
	"REMINDER_NIGHT_CRON":     "0 20 * * *",
	"R2_ACCOUNT_ID":           "",
	"R2_ACCESS_KEY_ID":        "",
	"R2_SECRET_ACCESS_KEY":    "",
	"R2_BUCKET_NAME":          "",
	"R2_PUBLIC_URL":           "",
}

// Load reads .env (if present) and the process environment. Every key has a
// default so viper's AutomaticEnv picks it up during Unmarshal.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine, the environment is enough
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) AIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) StorageEnabled() bool {
	return c.R2AccountID != "" && c.R2BucketName != ""
}

func (c *Config) AITimeout() time.Duration {
	if c.AITimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

// ReminderLocation falls back to UTC on an unknown zone name.
func (c *Config) ReminderLocation() *time.Location {
	if c.ReminderTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
