package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"skool-sync/pkg/errors"
	"skool-sync/pkg/logger"
)

// writeErrorResponse writes an AppError as JSON
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, log *logger.Logger) {
	log.WithError(appErr).Warn("Request rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := errors.ErrorResponse{
		Success:   false,
		Error:     appErr.Message,
		Type:      appErr.Type,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}
