package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// managedEnv lists every variable New reads so each case starts from a blank slate.
var managedEnv = []string{
	"ENVIRONMENT", "SERVER_HOST", "PORT", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "SERVER_REQUEST_TIMEOUT",
	"CORS_ALLOWED_ORIGINS",
	"SMARTLEAD_WEBHOOK_SECRET", "WEBHOOK_SIGNATURE_HEADER", "WEBHOOK_MAX_BODY_BYTES",
	"NOTION_API_KEY", "NOTION_DATABASE_ID",
	"COMPOSIO_API_KEY", "COMPOSIO_BASE_URL", "COMPOSIO_TIMEOUT",
	"RETRY_MAX_ATTEMPTS", "RETRY_DELAYS", "RETRY_REJECTED_WRITES",
	"LOG_LEVEL", "LOG_FORMAT",
}

func setEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.True(t, cfg.IsDevelopment())
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8000, cfg.Server.Port)
				assert.Equal(t, 150*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
				assert.Equal(t, DefaultSignatureHeader, cfg.Webhook.SignatureHeader)
				assert.Equal(t, int64(1<<20), cfg.Webhook.MaxBodyBytes)
				assert.Equal(t, DefaultComposioBaseURL, cfg.Composio.BaseURL)
				assert.Equal(t, 30*time.Second, cfg.Composio.Timeout)
				assert.Equal(t, 3, cfg.Retry.MaxAttempts)
				assert.Equal(t, []time.Duration{5 * time.Second, 25 * time.Second}, cfg.Retry.Delays)
				assert.False(t, cfg.Retry.RetryRejected)
				assert.Equal(t, "info", cfg.Observability.LogLevel)
				assert.Equal(t, "json", cfg.Observability.LogFormat)
			},
		},
		{
			name: "credentials and destination",
			envVars: map[string]string{
				"ENVIRONMENT":              "production",
				"SMARTLEAD_WEBHOOK_SECRET": "shh",
				"NOTION_API_KEY":           "secret_notion",
				"NOTION_DATABASE_ID":       "db-123",
				"COMPOSIO_API_KEY":         "ck_live",
				"COMPOSIO_BASE_URL":        "http://composio.local/v1/",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, "shh", cfg.Webhook.Secret)
				assert.Equal(t, "http://composio.local/v1", cfg.Composio.BaseURL)
				assert.Equal(t, Destination{
					ComposioAPIKey: "ck_live",
					NotionAPIKey:   "secret_notion",
					DatabaseID:     "db-123",
				}, cfg.Destination())
			},
		},
		{
			name: "missing credentials do not fail startup",
			envVars: map[string]string{
				"ENVIRONMENT": "production",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Destination().DatabaseID)
			},
		},
		{
			name: "retry overrides",
			envVars: map[string]string{
				"RETRY_MAX_ATTEMPTS":    "5",
				"RETRY_DELAYS":          "1s, 2s,4s",
				"RETRY_REJECTED_WRITES": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Retry.MaxAttempts)
				assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, cfg.Retry.Delays)
				assert.True(t, cfg.Retry.RetryRejected)
			},
		},
		{
			name: "malformed retry delays fall back to defaults",
			envVars: map[string]string{
				"RETRY_DELAYS": "5s,soon",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []time.Duration{5 * time.Second, 25 * time.Second}, cfg.Retry.Delays)
			},
		},
		{
			name: "PORT env var takes precedence over SERVER_PORT",
			envVars: map[string]string{
				"PORT":        "9443",
				"SERVER_PORT": "9000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9443, cfg.Server.Port)
			},
		},
		{
			name: "SERVER_PORT env var when PORT not set",
			envVars: map[string]string{
				"SERVER_PORT": "9000",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address())
			},
		},
		{
			name: "cors origins list",
			envVars: map[string]string{
				"CORS_ALLOWED_ORIGINS": "https://app.smartlead.ai, https://example.com",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"https://app.smartlead.ai", "https://example.com"}, cfg.Server.AllowedOrigins)
			},
		},
		{
			name: "zero retry attempts",
			envVars: map[string]string{
				"RETRY_MAX_ATTEMPTS": "0",
			},
			wantErr: true,
		},
		{
			name: "unsupported log level",
			envVars: map[string]string{
				"LOG_LEVEL": "verbose",
			},
			wantErr: true,
		},
		{
			name: "unsupported log format",
			envVars: map[string]string{
				"LOG_FORMAT": "xml",
			},
			wantErr: true,
		},
		{
			name: "port out of range",
			envVars: map[string]string{
				"PORT": "70000",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.envVars)

			cfg, err := New(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestNotionConfig_MaskedDatabaseID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "unset", id: "", want: "NOT SET"},
		{name: "short", id: "abc", want: "abc..."},
		{name: "long", id: "0123456789abcdef0123456789abcdef", want: "0123456789abcdef0123..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NotionConfig{DatabaseID: tt.id}
			assert.Equal(t, tt.want, c.MaskedDatabaseID())
		})
	}
}
