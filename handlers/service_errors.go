package handlers

import (
	"net/http"

	"github.com/upb/smartlead-notion-relay/services"
	"github.com/upb/smartlead-notion-relay/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses.
// Callers only ever see the status code and a short detail string.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	detail := services.GetErrorMessage(err)

	var writeErr error
	switch {
	case services.IsAuthError(err):
		logger.Warn("webhook rejected", zap.String("detail", detail))
		writeErr = utils.WriteUnauthorized(w, detail)

	case services.IsParseError(err):
		logger.Warn("invalid webhook payload", zap.Error(err))
		writeErr = utils.WriteBadRequest(w, detail)

	case services.IsConfigError(err):
		logger.Error("server configuration error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, detail)

	case services.IsWriteError(err):
		logger.Error("destination write failed",
			zap.Error(err),
			zap.Any("details", services.GetErrorDetails(err)))
		writeErr = utils.WriteInternalServerError(w, detail)

	default:
		// Internal and unclassified errors both surface as "Error: <msg>".
		logger.Error("unexpected error",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		writeErr = utils.WriteInternalServerError(w, detail)
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}
