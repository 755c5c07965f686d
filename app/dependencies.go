package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/smartlead-notion-relay/config"
	"github.com/upb/smartlead-notion-relay/handlers"
	"github.com/upb/smartlead-notion-relay/internal/observability"
	"github.com/upb/smartlead-notion-relay/services/ingest"
	"github.com/upb/smartlead-notion-relay/services/notion"
	"github.com/upb/smartlead-notion-relay/services/retry"
	"github.com/upb/smartlead-notion-relay/services/transform"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Counters

	// Services
	Transformer *transform.Transformer
	Writer      *notion.ComposioWriter
	Executor    *retry.Executor
	Ingest      *ingest.Service

	// Handlers
	WebhookHandler *handlers.WebhookHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
// Missing destination credentials are only warned about here; they surface
// as 500 responses on the webhook route.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewCounters(),
	}

	deps.initServices(cfg)
	deps.initHandlers(cfg)
	deps.warnMissingSettings(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.String("environment", cfg.Environment),
		zap.String("database_id", cfg.Notion.MaskedDatabaseID()),
		zap.String("composio_endpoint", deps.Writer.Endpoint()))
	return deps, nil
}

// initServices builds the write path: transformer, writer, retry and ingest
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Transformer = transform.NewTransformer(d.Logger)

	d.Writer = notion.NewComposioWriter(notion.WriterConfig{
		APIKey:  cfg.Composio.APIKey,
		BaseURL: cfg.Composio.BaseURL,
		Timeout: cfg.Composio.Timeout,
	}, d.Logger)

	d.Executor = retry.NewExecutor(cfg.Retry.MaxAttempts, cfg.Retry.Delays, d.Logger,
		retry.WithOnRetry(func(attempt int, delay time.Duration, err error) {
			d.Metrics.RecordRetry()
		}))

	d.Ingest = ingest.NewService(
		cfg.Destination(),
		cfg.Retry.RetryRejected,
		d.Transformer,
		d.Writer,
		d.Executor,
		d.Logger,
	)
}

func (d *Dependencies) initHandlers(cfg *config.Config) {
	d.WebhookHandler = handlers.NewWebhookHandler(handlers.WebhookConfig{
		Secret:          cfg.Webhook.Secret,
		SignatureHeader: cfg.Webhook.SignatureHeader,
		MaxBodyBytes:    cfg.Webhook.MaxBodyBytes,
	}, d.Ingest, d.Metrics, d.Logger)

	d.HealthHandler = handlers.NewHealthHandler(cfg.Notion.MaskedDatabaseID(), d.Metrics, d.Logger)
}

func (d *Dependencies) warnMissingSettings(cfg *config.Config) {
	if cfg.Webhook.Secret == "" {
		d.Logger.Warn("SMARTLEAD_WEBHOOK_SECRET not set, all webhook deliveries will be rejected")
	}
	if cfg.Composio.APIKey == "" {
		d.Logger.Warn("COMPOSIO_API_KEY not set")
	}
	if cfg.Notion.APIKey == "" {
		d.Logger.Warn("NOTION_API_KEY not set")
	}
	if cfg.Notion.DatabaseID == "" {
		d.Logger.Warn("NOTION_DATABASE_ID not set")
	}
}

// Close flushes buffered log entries
func (d *Dependencies) Close(ctx context.Context) error {
	snapshot := d.Metrics.Snapshot()
	d.Logger.Info("closing dependencies",
		zap.Int64("inserted", snapshot.Inserted),
		zap.Int64("failed", snapshot.Failed))

	// Sync fails on stdout/stderr for some platforms; ignore it.
	_ = d.Logger.Sync()
	return ctx.Err()
}
