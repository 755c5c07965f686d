// Package notion writes transformed events into a Notion database through
// the Composio automation API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/upb/smartlead-notion-relay/services/transform"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.composio.dev/v1"
	defaultTimeout = 30 * time.Second

	// insertRowAction is the Composio action that appends one row to a database.
	insertRowAction = "NOTION_INSERT_ROW_DATABASE"

	// maxLoggedBody caps how much of a rejected response is logged.
	maxLoggedBody = 2048
)

// WriterConfig holds the Composio client settings
type WriterConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// InsertRowRequest is the body of the row-insert action
type InsertRowRequest struct {
	DatabaseID string                `json:"database_id"`
	Properties transform.FieldRecord `json:"properties"`
}

// ComposioWriter performs single row inserts. It does not retry.
type ComposioWriter struct {
	config     WriterConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewComposioWriter creates a new writer
func NewComposioWriter(config WriterConfig, logger *zap.Logger) *ComposioWriter {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ComposioWriter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Endpoint returns the row-insert URL
func (w *ComposioWriter) Endpoint() string {
	return w.config.BaseURL + "/actions/" + insertRowAction
}

// InsertRow posts fields as a new row of databaseID.
//
// A 200 or 201 response yields true. Any other status yields false with a
// nil error; the status and body are logged. Transport failures and
// timeouts are returned as errors so the caller may retry them.
func (w *ComposioWriter) InsertRow(ctx context.Context, fields transform.FieldRecord, databaseID string) (bool, error) {
	reqBody, err := json.Marshal(InsertRowRequest{
		DatabaseID: databaseID,
		Properties: fields,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal insert request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.Endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return false, fmt.Errorf("failed to create insert request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+w.config.APIKey)

	httpResp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("insert request failed: %w", err)
	}
	defer httpResp.Body.Close()

	switch httpResp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, httpResp.Body)
		w.logger.Info("event inserted", zap.String("event_id", fields.EventID()))
		return true, nil
	}

	body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxLoggedBody))
	w.logger.Error("destination rejected insert",
		zap.String("event_id", fields.EventID()),
		zap.Int("status", httpResp.StatusCode),
		zap.String("body", string(body)))
	return false, nil
}
