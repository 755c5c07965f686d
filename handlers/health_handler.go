package handlers

import (
	"net/http"
	"time"

	"github.com/upb/smartlead-notion-relay/internal/observability"
	"github.com/upb/smartlead-notion-relay/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string                      `json:"status"`
	Service    string                      `json:"service"`
	Timestamp  string                      `json:"timestamp"`
	DatabaseID string                      `json:"database_id"`
	Deliveries observability.DeliveryStats `json:"deliveries"`
}

// RootResponse is the service banner
type RootResponse struct {
	Message string `json:"message"`
	Health  string `json:"health"`
	Webhook string `json:"webhook"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	maskedDatabaseID string
	metrics          observability.Metrics
	logger           *zap.Logger
	now              func() time.Time
}

// NewHealthHandler creates a new HealthHandler. maskedDatabaseID must
// already be safe to expose.
func NewHealthHandler(maskedDatabaseID string, metrics observability.Metrics, logger *zap.Logger) *HealthHandler {
	if metrics == nil {
		metrics = observability.NewCounters()
	}
	return &HealthHandler{
		maskedDatabaseID: maskedDatabaseID,
		metrics:          metrics,
		logger:           logger,
		now:              time.Now,
	}
}

// HandleHealth handles GET /health
// Liveness only - always returns 200 if the process is serving
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:     "healthy",
		Service:    observability.ServiceName,
		Timestamp:  h.now().UTC().Format(time.RFC3339),
		DatabaseID: h.maskedDatabaseID,
		Deliveries: h.metrics.Snapshot(),
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write health response", zap.Error(err))
	}
}

// HandleRoot handles GET /
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	response := RootResponse{
		Message: observability.ServiceName,
		Health:  "/health",
		Webhook: "/api/webhook",
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write root response", zap.Error(err))
	}
}
