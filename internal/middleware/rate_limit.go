package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"skool-sync/internal/domain"
	"skool-sync/pkg/errors"
	"skool-sync/pkg/logger"
)

// DeliveryChecker reports whether a client may deliver another webhook
type DeliveryChecker interface {
	Check(ctx context.Context, clientIP string) (*domain.RateLimitInfo, error)
}

// RateLimit throttles POST deliveries per client address. When the counter
// store is unavailable the request is let through.
func RateLimit(checker DeliveryChecker, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			reqLog := LoggerFrom(r.Context(), log)

			info, err := checker.Check(r.Context(), clientIP(r))
			if err != nil {
				reqLog.WithError(err).Warn("Rate limit check failed, allowing delivery")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(info.Limit, 10))
			remaining := info.Limit - info.RequestCount
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !info.IsAllowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(info.TTL.Seconds())))
				writeErrorResponse(w, errors.NewRateLimitError("Too many webhook deliveries. Please try again later."), reqLog)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP relies on chi's RealIP middleware having rewritten RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
