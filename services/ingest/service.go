// Package ingest turns a verified Smartlead event into a Notion row.
package ingest

import (
	"context"
	"errors"

	"github.com/upb/smartlead-notion-relay/config"
	"github.com/upb/smartlead-notion-relay/internal/observability"
	"github.com/upb/smartlead-notion-relay/services"
	"github.com/upb/smartlead-notion-relay/services/retry"
	"github.com/upb/smartlead-notion-relay/services/transform"
	"github.com/upb/smartlead-notion-relay/utils"
	"go.uber.org/zap"
)

// RowWriter performs one destination insert. A false result with a nil
// error means the destination answered but refused the row.
type RowWriter interface {
	InsertRow(ctx context.Context, fields transform.FieldRecord, databaseID string) (bool, error)
}

// errRejected marks a refused write when rejected writes are retried.
var errRejected = errors.New("destination rejected the row")

// Service orchestrates credential check, transformation and retried write.
type Service struct {
	destination   config.Destination
	retryRejected bool
	transformer   *transform.Transformer
	writer        RowWriter
	executor      *retry.Executor
	logger        *zap.Logger
}

// NewService creates a new ingest service
func NewService(
	destination config.Destination,
	retryRejected bool,
	transformer *transform.Transformer,
	writer RowWriter,
	executor *retry.Executor,
	logger *zap.Logger,
) *Service {
	return &Service{
		destination:   destination,
		retryRejected: retryRejected,
		transformer:   transformer,
		writer:        writer,
		executor:      executor,
		logger:        logger,
	}
}

// Ingest writes ev to the destination and returns its Event ID.
//
// Errors are *services.DomainError values: ErrorTypeConfig when credentials
// are missing, ErrorTypeWrite when the destination refused the row, and
// ErrorTypeInternal when every attempt failed with a transport error.
func (s *Service) Ingest(ctx context.Context, ev transform.Event) (string, error) {
	logger := observability.ForContext(ctx, s.logger)

	if err := utils.ValidateStruct(s.destination); err != nil {
		logger.Error("destination not configured", zap.Error(err))
		return "", services.WrapConfig(err)
	}

	fields := s.transformer.BuildFields(ev)
	eventID := fields.EventID()

	inserted, err := retry.Do(ctx, s.executor, func(ctx context.Context) (bool, error) {
		ok, err := s.writer.InsertRow(ctx, fields, s.destination.DatabaseID)
		if err == nil && !ok && s.retryRejected {
			return false, errRejected
		}
		return ok, err
	})
	if err != nil {
		if errors.Is(err, errRejected) {
			logger.Error("destination rejected row after retries", zap.String("event_id", eventID))
			return "", services.NewDomainError(services.ErrorTypeWrite, services.ErrInsertFailed.Message, err).
				WithDetail("event_id", eventID)
		}
		logger.Error("failed to write event", zap.String("event_id", eventID), zap.Error(err))
		return "", services.WrapInternal(err)
	}
	if !inserted {
		logger.Error("destination rejected row", zap.String("event_id", eventID))
		return "", services.NewDomainError(services.ErrorTypeWrite, services.ErrInsertFailed.Message, nil).
			WithDetail("event_id", eventID)
	}

	return eventID, nil
}
