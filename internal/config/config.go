package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultModel is the image-capable model used when no override is configured.
	DefaultModel = "gemini-2.5-flash-image"

	// DefaultMaxBase64Length bounds the image field by character count (~6MB).
	DefaultMaxBase64Length = 6 * 1024 * 1024
)

// Backend names for the generator adapter
const (
	BackendSDK  = "sdk"
	BackendREST = "rest"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Server      ServerConfig
	Gemini      GeminiConfig
	Limits      LimitsConfig
	Metrics     MetricsConfig

	// Source resolves credentials and model overrides at call time.
	Source Source
}

// ServerConfig holds HTTP server timeouts
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// GeminiConfig holds configuration for the generative model backend
type GeminiConfig struct {
	Backend         string // "sdk" or "rest"
	BaseURL         string
	Timeout         time.Duration
	CredentialNames []string
	ModelNames      []string
	DefaultModel    string
}

// LimitsConfig holds request limits
type LimitsConfig struct {
	MaxBase64Length   int
	MaxRequestBytes   int64
	RequestsPerSecond float64
	Burst             int
}

// MetricsConfig holds prometheus configuration
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Credential names in priority order: the bound secret first, then two alternates.
var defaultCredentialNames = []string{"GEMINI", "GEMINI_API_KEY", "GEMINI_KEY"}

// Model override names in priority order.
var defaultModelNames = []string{"GENERATIVE_MODEL", "GENERATIVE_MODEL_NAME"}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 300*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("GEMINI_BACKEND", BackendSDK)
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_TIMEOUT", 290*time.Second)
	v.SetDefault("GEMINI_DEFAULT_MODEL", DefaultModel)
	v.SetDefault("MAX_BASE64_LENGTH", DefaultMaxBase64Length)
	v.SetDefault("MAX_REQUEST_BYTES", 8*1024*1024)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_NAMESPACE", "image_transform")

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Server: ServerConfig{
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Gemini: GeminiConfig{
			Backend:         strings.ToLower(v.GetString("GEMINI_BACKEND")),
			BaseURL:         v.GetString("GEMINI_BASE_URL"),
			Timeout:         v.GetDuration("GEMINI_TIMEOUT"),
			CredentialNames: append([]string(nil), defaultCredentialNames...),
			ModelNames:      append([]string(nil), defaultModelNames...),
			DefaultModel:    v.GetString("GEMINI_DEFAULT_MODEL"),
		},
		Limits: LimitsConfig{
			MaxBase64Length:   v.GetInt("MAX_BASE64_LENGTH"),
			MaxRequestBytes:   v.GetInt64("MAX_REQUEST_BYTES"),
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("METRICS_ENABLED"),
			Namespace: v.GetString("METRICS_NAMESPACE"),
		},
		Source: NewViperSource(v),
	}

	return config, nil
}

// Default returns a configuration with built-in defaults and no ambient lookups.
// Callers supply Source themselves.
func Default() *Config {
	return &Config{
		Environment: "development",
		Port:        "8081",
		Server: ServerConfig{
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    300 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Gemini: GeminiConfig{
			Backend:         BackendSDK,
			BaseURL:         "https://generativelanguage.googleapis.com",
			Timeout:         290 * time.Second,
			CredentialNames: append([]string(nil), defaultCredentialNames...),
			ModelNames:      append([]string(nil), defaultModelNames...),
			DefaultModel:    DefaultModel,
		},
		Limits: LimitsConfig{
			MaxBase64Length:   DefaultMaxBase64Length,
			MaxRequestBytes:   8 * 1024 * 1024,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "image_transform",
		},
	}
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
