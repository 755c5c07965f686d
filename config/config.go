package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultSignatureHeader is the header Smartlead signs webhook deliveries with
	DefaultSignatureHeader = "X-Smartlead-Signature"

	// DefaultComposioBaseURL is the Composio automation API root
	DefaultComposioBaseURL = "https://api.composio.dev/v1"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Webhook       WebhookConfig
	Notion        NotionConfig
	Composio      ComposioConfig
	Retry         RetryConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// RequestTimeout bounds a single webhook request, backoff sleeps included.
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// WebhookConfig holds inbound webhook authentication settings
type WebhookConfig struct {
	Secret          string
	SignatureHeader string
	MaxBodyBytes    int64
}

// NotionConfig identifies the destination database
type NotionConfig struct {
	APIKey     string
	DatabaseID string
}

// ComposioConfig holds the automation API client configuration
type ComposioConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// RetryConfig holds the backoff policy for destination writes
type RetryConfig struct {
	MaxAttempts int
	Delays      []time.Duration
	// RetryRejected turns a non-2xx destination response into a retryable failure.
	RetryRejected bool
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// Destination is the set of credentials the write path needs.
// It is checked per request so that a missing value surfaces as a 500
// instead of keeping the process from starting.
type Destination struct {
	ComposioAPIKey string `validate:"required"`
	NotionAPIKey   string `validate:"required"`
	DatabaseID     string `validate:"required"`
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 150*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 140*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Webhook: WebhookConfig{
			Secret:          getEnv("SMARTLEAD_WEBHOOK_SECRET", ""),
			SignatureHeader: getEnv("WEBHOOK_SIGNATURE_HEADER", DefaultSignatureHeader),
			MaxBodyBytes:    int64(getEnvAsInt("WEBHOOK_MAX_BODY_BYTES", 1<<20)),
		},
		Notion: NotionConfig{
			APIKey:     getEnv("NOTION_API_KEY", ""),
			DatabaseID: getEnv("NOTION_DATABASE_ID", ""),
		},
		Composio: ComposioConfig{
			APIKey:  getEnv("COMPOSIO_API_KEY", ""),
			BaseURL: strings.TrimRight(getEnv("COMPOSIO_BASE_URL", DefaultComposioBaseURL), "/"),
			Timeout: getEnvAsDuration("COMPOSIO_TIMEOUT", 30*time.Second),
		},
		Retry: RetryConfig{
			MaxAttempts:   getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			Delays:        getEnvAsDurations("RETRY_DELAYS", []time.Duration{5 * time.Second, 25 * time.Second}),
			RetryRejected: getEnvAsBool("RETRY_REJECTED_WRITES", false),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the structural settings are usable.
// Destination credentials are deliberately not checked here, see Destination.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}

	if c.Webhook.SignatureHeader == "" {
		return fmt.Errorf("webhook signature header is required")
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		return fmt.Errorf("webhook max body bytes must be positive")
	}

	if c.Composio.BaseURL == "" {
		return fmt.Errorf("composio base URL is required")
	}
	if c.Composio.Timeout <= 0 {
		return fmt.Errorf("composio timeout must be positive")
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1")
	}
	for _, d := range c.Retry.Delays {
		if d < 0 {
			return fmt.Errorf("retry delays must not be negative")
		}
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Observability.LogLevel)
	}
	switch c.Observability.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.Observability.LogFormat)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Destination returns the credentials used by the write path
func (c *Config) Destination() Destination {
	return Destination{
		ComposioAPIKey: c.Composio.APIKey,
		NotionAPIKey:   c.Notion.APIKey,
		DatabaseID:     c.Notion.DatabaseID,
	}
}

// MaskedDatabaseID returns a log- and response-safe rendering of the database ID
func (c *NotionConfig) MaskedDatabaseID() string {
	if c.DatabaseID == "" {
		return "NOT SET"
	}
	if len(c.DatabaseID) <= 20 {
		return c.DatabaseID + "..."
	}
	return c.DatabaseID[:20] + "..."
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDurations parses a comma-separated list such as "5s,25s".
// Any malformed entry falls back to the default list.
func getEnvAsDurations(key string, defaultValue []time.Duration) []time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []time.Duration
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.ParseDuration(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, d)
	}
	return out
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
