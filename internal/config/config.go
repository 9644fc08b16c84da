// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `validate:"required"`
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development production testing"`

	// PostgreSQL connection (document store)
	DBHost     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`

	// Valkey (Redis-compatible cache). The fire guard claims each slot
	// firing in Valkey before the template is updated.
	ValkeyHost       string
	ValkeyPort       string
	ValkeyPassword   string
	FireGuardEnabled bool

	// S3-compatible object storage for rendered images
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string
	S3ImageBucket string `validate:"required"`

	// Language model settings
	AIProvider            string `validate:"oneof=openai gemini"`
	OpenAIKey             string
	OpenAIModel           string
	OpenAIBaseURL         string `validate:"omitempty,url"`
	OpenAIAzureDeployment string
	OpenAIAPIVersion      string
	GeminiKey             string
	GeminiModel           string

	// Image search for "online" backgrounds
	SearchAPIKey   string
	SearchEngineID string

	// Pipeline trigger. The scheduler POSTs to APIBaseURL/orchestrate-content
	// and presents FunctionKey when set.
	APIBaseURL     string `validate:"required,url"`
	FunctionKey    string
	TriggerTimeout time.Duration `validate:"gt=0"`

	// ScheduleCron is a six-field cron expression (seconds first).
	ScheduleCron string `validate:"required"`

	// PromptDefaultsFile optionally overrides the embedded prompt defaults.
	PromptDefaultsFile string

	InstagramGraphURL string `validate:"required,url"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed, or if production runs on the default password.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "autogensocial"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "autogensocial"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3Region:      envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:   os.Getenv("S3_PUBLIC_URL"),
		S3ImageBucket: envOrDefault("S3_IMAGE_BUCKET", "images"),

		AIProvider:            strings.ToLower(envOrDefault("AI_PROVIDER", "openai")),
		OpenAIKey:             os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           envOrDefault("OPENAI_MODEL", "gpt-4.1"),
		OpenAIBaseURL:         envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAzureDeployment: os.Getenv("OPENAI_AZURE_DEPLOYMENT"),
		OpenAIAPIVersion:      envOrDefault("OPENAI_API_VERSION", "2024-02-15-preview"),
		GeminiKey:             os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           envOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),
		SearchEngineID: os.Getenv("SEARCH_ENGINE_ID"),

		APIBaseURL:  strings.TrimRight(envOrDefault("API_BASE_URL", "http://localhost:8080/api"), "/"),
		FunctionKey: os.Getenv("FUNCTION_KEY"),

		ScheduleCron:       envOrDefault("SCHEDULE_CRON", "0 */5 * * * *"),
		PromptDefaultsFile: os.Getenv("PROMPT_DEFAULTS_FILE"),
		InstagramGraphURL:  strings.TrimRight(envOrDefault("INSTAGRAM_GRAPH_URL", "https://graph.facebook.com/v19.0"), "/"),
	}

	var err error
	if cfg.FireGuardEnabled, err = envBool("FIRE_GUARD_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.TriggerTimeout, err = envDuration("TRIGGER_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// StorageEnabled reports whether S3 credentials are configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// TriggerURL returns the pipeline endpoint the scheduler calls.
func (c *Config) TriggerURL() string {
	return c.APIBaseURL + "/orchestrate-content"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
