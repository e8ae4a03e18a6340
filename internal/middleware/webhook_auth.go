package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"skool-sync/pkg/errors"
	"skool-sync/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// WebhookAuth requires POST deliveries to carry an HS256 bearer token signed
// with secret. Preflight and other methods pass through untouched.
func WebhookAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			reqLog := LoggerFrom(r.Context(), log)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Authorization header is required"), reqLog)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid authorization header format"), reqLog)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Token is required"), reqLog)
				return
			}

			token, err := parser.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				reqLog.WithError(err).Debug("Webhook token validation failed")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token"), reqLog)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
