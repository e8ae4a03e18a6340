package middleware

import (
	"net/http"
	"strings"
)

// CORSConfig holds the fixed response headers of the webhook
type CORSConfig struct {
	AllowedOrigin  string
	AllowedMethods []string
	AllowedHeaders []string
	ContentType    string
}

// DefaultCORSConfig returns the permissive configuration the webhook is called with
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigin:  "*",
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ContentType:    "application/json",
	}
}

// CORS sets the webhook's CORS and content-type headers on every response.
// Preflight requests are answered by the handler.
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultCORSConfig()
	}

	allowedMethods := strings.Join(config.AllowedMethods, ", ")
	allowedHeaders := strings.Join(config.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", config.AllowedOrigin)
			h.Set("Access-Control-Allow-Headers", allowedHeaders)
			h.Set("Access-Control-Allow-Methods", allowedMethods)
			h.Set("Content-Type", config.ContentType)

			next.ServeHTTP(w, r)
		})
	}
}
