package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultFirebaseDatabaseURL is the realtime database endpoint the Firebase app is bound to
const DefaultFirebaseDatabaseURL = "https://podclub-bdcc9-default-rtdb.firebaseio.com"

// Store backends
const (
	ProfileStoreFirestore = "firestore"
	ProfileStorePostgres  = "postgres"
	ProfileStoreMemory    = "memory"

	IdentityStoreFirebase = "firebase"
	IdentityStoreMemory   = "memory"
)

// Config holds all configuration values for the application
type Config struct {
	Port        string
	LogLevel    string
	Environment string

	FirebaseProjectID   string
	FirebaseClientEmail string
	FirebasePrivateKey  string
	FirebaseDatabaseURL string

	ProfileStore        string
	IdentityStore       string
	FirestoreCollection string

	DatabaseURL      string
	RedisURL         string
	RateLimitPerHour int
	WebhookJWTSecret string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Environment:         getEnv("ENVIRONMENT", "production"),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail: getEnv("FIREBASE_CLIENT_EMAIL", ""),
		FirebasePrivateKey:  normalizePrivateKey(getEnv("FIREBASE_PRIVATE_KEY", "")),
		FirebaseDatabaseURL: getEnv("FIREBASE_DATABASE_URL", DefaultFirebaseDatabaseURL),
		ProfileStore:        strings.ToLower(getEnv("PROFILE_STORE", ProfileStoreFirestore)),
		IdentityStore:       strings.ToLower(getEnv("IDENTITY_STORE", IdentityStoreFirebase)),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "users"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		RateLimitPerHour:    getIntEnv("RATE_LIMIT_PER_HOUR", 120),
		WebhookJWTSecret:    getEnv("WEBHOOK_JWT_SECRET", ""),
	}, nil
}

// NeedsFirebase reports whether any configured store talks to Firebase
func (c *Config) NeedsFirebase() bool {
	return c.ProfileStore == ProfileStoreFirestore || c.IdentityStore == IdentityStoreFirebase
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// normalizePrivateKey turns escaped "\n" sequences from single-line env values into real newlines
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
