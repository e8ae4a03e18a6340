package middleware

import (
	"context"
	"net/http"

	"skool-sync/pkg/logger"

	"github.com/google/uuid"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
	// LoggerContextKey is the key for the request-scoped logger in context
	LoggerContextKey ContextKey = "logger"
)

// RequestID tags each request with an id, echoed in X-Request-ID and attached
// to a request-scoped logger
func RequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			ctx = context.WithValue(ctx, LoggerContextKey, log.WithField("request_id", requestID))

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFrom returns the request-scoped logger, or fallback when none is set
func LoggerFrom(ctx context.Context, fallback *logger.Logger) *logger.Logger {
	if log, ok := ctx.Value(LoggerContextKey).(*logger.Logger); ok {
		return log
	}
	return fallback
}
