package redis

import "fmt"

// Key patterns
const (
	KeyDeliveryRateLimit = "webhook:ratelimit:%s" // webhook:ratelimit:{ipHash}
)

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: "skool-sync:" + prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyDeliveryRateLimit returns the per-client delivery counter key
func (kb *KeyBuilder) KeyDeliveryRateLimit(ipHash string) string {
	return kb.BuildKey(fmt.Sprintf(KeyDeliveryRateLimit, ipHash))
}
