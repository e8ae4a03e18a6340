package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"skool-sync/internal/domain"
	"skool-sync/pkg/logger"
	"skool-sync/pkg/redis"
)

// DeliveryWindow is the fixed window deliveries are counted in
const DeliveryWindow = time.Hour

// DeliveryLimiter counts webhook deliveries per client in Redis
type DeliveryLimiter struct {
	redisClient *redis.Client
	limit       int64
	logger      *logger.Logger
}

// NewDeliveryLimiter creates a limiter allowing limit deliveries per client per window
func NewDeliveryLimiter(redisClient *redis.Client, limit int, logger *logger.Logger) *DeliveryLimiter {
	return &DeliveryLimiter{
		redisClient: redisClient,
		limit:       int64(limit),
		logger:      logger,
	}
}

// Check records a delivery from clientIP and reports whether it is within the limit
func (l *DeliveryLimiter) Check(ctx context.Context, clientIP string) (*domain.RateLimitInfo, error) {
	clientHash := hashClient(clientIP)
	key := l.redisClient.KeyBuilder.KeyDeliveryRateLimit(clientHash)

	count, err := l.redisClient.Incr(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to increment delivery counter: %w", err)
	}

	// Start the window on the first delivery
	if count == 1 {
		if err := l.redisClient.Expire(ctx, key, DeliveryWindow); err != nil {
			l.logger.WithError(err).Warn("Failed to set delivery counter expiry")
		}
	}

	ttl, err := l.redisClient.TTL(ctx, key)
	if err != nil {
		ttl = DeliveryWindow
	}

	return &domain.RateLimitInfo{
		ClientHash:   clientHash,
		RequestCount: count,
		Limit:        l.limit,
		TTL:          ttl,
		IsAllowed:    count <= l.limit,
	}, nil
}

// hashClient keeps raw IPs out of Redis keys
func hashClient(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
