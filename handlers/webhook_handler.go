package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/upb/smartlead-notion-relay/internal/observability"
	"github.com/upb/smartlead-notion-relay/services"
	"github.com/upb/smartlead-notion-relay/services/signature"
	"github.com/upb/smartlead-notion-relay/services/transform"
	"github.com/upb/smartlead-notion-relay/utils"
	"go.uber.org/zap"
)

// Ingester writes a verified event to the destination and returns its Event ID
type Ingester interface {
	Ingest(ctx context.Context, ev transform.Event) (string, error)
}

// WebhookConfig holds the inbound authentication settings the handler needs
type WebhookConfig struct {
	Secret          string
	SignatureHeader string
	MaxBodyBytes    int64
}

// WebhookResponse is returned by POST /api/webhook on success
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	EventID string `json:"event_id"`
}

// WebhookHandler handles Smartlead webhook deliveries
type WebhookHandler struct {
	config   WebhookConfig
	ingester Ingester
	metrics  observability.Metrics
	logger   *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(config WebhookConfig, ingester Ingester, metrics observability.Metrics, logger *zap.Logger) *WebhookHandler {
	if metrics == nil {
		metrics = observability.NewCounters()
	}
	return &WebhookHandler{
		config:   config,
		ingester: ingester,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleWebhook handles POST /api/webhook.
//
// The body is authenticated against the shared secret before it is parsed;
// only a verified JSON object reaches the ingester.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.ForContext(ctx, h.logger)

	body, err := h.readBody(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("webhook body too large", zap.Int64("limit", tooLarge.Limit))
			h.metrics.RecordDelivery(observability.OutcomeInvalid)
			_ = utils.WriteError(w, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		h.fail(w, logger, services.WrapInternal(err))
		return
	}

	provided := r.Header.Get(h.config.SignatureHeader)
	if provided == "" {
		h.fail(w, logger, services.ErrMissingSignature)
		return
	}
	if !signature.Verify(body, provided, h.config.Secret) {
		if h.config.Secret == "" {
			logger.Warn("webhook secret not configured")
		}
		h.fail(w, logger, services.ErrInvalidSignature)
		return
	}

	ev, err := transform.ParseEvent(body)
	if err != nil {
		h.fail(w, logger, services.WrapParse(err))
		return
	}

	logger.Info("webhook received",
		zap.String("event", ev.String("event", "")),
		zap.String("campaign", ev.String("campaign", "")))

	eventID, err := h.ingester.Ingest(ctx, ev)
	if err != nil {
		h.fail(w, logger, err)
		return
	}

	h.metrics.RecordDelivery(observability.OutcomeInserted)
	if err := utils.WriteOK(w, WebhookResponse{
		Status:  "success",
		Message: "Event inserted into Notion",
		EventID: eventID,
	}); err != nil {
		logger.Error("failed to write webhook response", zap.Error(err))
	}
}

func (h *WebhookHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if h.config.MaxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	}
	return io.ReadAll(reader)
}

func (h *WebhookHandler) fail(w http.ResponseWriter, logger *zap.Logger, err error) {
	h.metrics.RecordDelivery(outcomeFor(err))
	HandleServiceError(w, err, logger)
}

func outcomeFor(err error) observability.Outcome {
	switch {
	case services.IsAuthError(err):
		return observability.OutcomeUnauthorized
	case services.IsParseError(err):
		return observability.OutcomeInvalid
	case services.IsWriteError(err):
		return observability.OutcomeRejected
	default:
		return observability.OutcomeFailed
	}
}
