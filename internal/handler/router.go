package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"skool-sync/internal/middleware"
	"skool-sync/pkg/logger"
)

// RouterOptions carries the optional delivery guards. Zero values disable them.
type RouterOptions struct {
	Limiter       middleware.DeliveryChecker
	WebhookSecret string
}

// NewRouter mounts the webhook on every path
func NewRouter(webhook *WebhookHandler, log *logger.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter, log))
	}
	if opts.WebhookSecret != "" {
		r.Use(middleware.WebhookAuth(opts.WebhookSecret, log))
	}

	r.HandleFunc("/", webhook.Handle)
	r.HandleFunc("/*", webhook.Handle)
	r.MethodNotAllowed(webhook.Handle)

	log.Info("Router configured successfully")
	return r
}
