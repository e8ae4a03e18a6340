package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		environment string
		want        string
	}{
		{"production", "skool-sync:prod"},
		{"", "skool-sync:prod"},
		{"staging", "skool-sync:staging"},
		{"development", "skool-sync:staging"},
		{"test", "skool-sync:staging"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			assert.Equal(t, tt.want, NewKeyBuilder(tt.environment).GetPrefix())
		})
	}
}

func TestKeyBuilder_KeyDeliveryRateLimit(t *testing.T) {
	prod := NewKeyBuilder("production")
	staging := NewKeyBuilder("staging")

	assert.Equal(t, "skool-sync:prod:webhook:ratelimit:abc123", prod.KeyDeliveryRateLimit("abc123"))
	assert.Equal(t, "skool-sync:staging:webhook:ratelimit:abc123", staging.KeyDeliveryRateLimit("abc123"))
	assert.NotEqual(t, prod.KeyDeliveryRateLimit("x"), staging.KeyDeliveryRateLimit("x"))
}

func TestKeyBuilder_BuildKey(t *testing.T) {
	kb := NewKeyBuilder("production")
	assert.Equal(t, "skool-sync:prod:custom:key", kb.BuildKey("custom:key"))
}
