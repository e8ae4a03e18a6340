package domain

import "time"

// RateLimitInfo describes where a client stands in the current delivery window
type RateLimitInfo struct {
	ClientHash   string        `json:"client_hash"`
	RequestCount int64         `json:"request_count"`
	Limit        int64         `json:"limit"`
	TTL          time.Duration `json:"ttl"`
	IsAllowed    bool          `json:"is_allowed"`
}
