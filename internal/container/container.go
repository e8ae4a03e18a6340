package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"skool-sync/internal/config"
	"skool-sync/internal/repository"
	"skool-sync/internal/service"
	"skool-sync/pkg/database"
	"skool-sync/pkg/firebase"
	"skool-sync/pkg/logger"
	"skool-sync/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Firestore    *firestore.Client
	Repositories *repository.Repositories
	Reconciler   *service.Reconciler
	Limiter      *service.DeliveryLimiter
}

// New creates a new dependency injection container. Connections opened before
// a failure are closed by the caller through the returned partial container.
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*Container, error) {
	c := &Container{
		Config:       cfg,
		Logger:       logger,
		Repositories: &repository.Repositories{},
	}

	creds := firebase.Credentials{
		ProjectID:   cfg.FirebaseProjectID,
		ClientEmail: cfg.FirebaseClientEmail,
		PrivateKey:  cfg.FirebasePrivateKey,
		DatabaseURL: cfg.FirebaseDatabaseURL,
	}

	switch cfg.ProfileStore {
	case config.ProfileStoreFirestore:
		client, err := firebase.Firestore(ctx, creds, logger)
		if err != nil {
			return c, err
		}
		c.Firestore = client
		c.Repositories.Profiles = repository.NewFirestoreProfileRepository(client, cfg.FirestoreCollection)
	case config.ProfileStorePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return c, err
		}
		c.DB = db
		c.Repositories.Profiles = repository.NewPostgresProfileRepository(db)
	case config.ProfileStoreMemory:
		c.Repositories.Profiles = repository.NewMemoryProfileRepository()
	default:
		return c, fmt.Errorf("unknown PROFILE_STORE %q", cfg.ProfileStore)
	}

	switch cfg.IdentityStore {
	case config.IdentityStoreFirebase:
		client, err := firebase.Auth(ctx, creds, logger)
		if err != nil {
			return c, err
		}
		c.Repositories.Identities = repository.NewFirebaseIdentityRepository(client)
	case config.IdentityStoreMemory:
		c.Repositories.Identities = repository.NewMemoryIdentityRepository()
	default:
		return c, fmt.Errorf("unknown IDENTITY_STORE %q", cfg.IdentityStore)
	}

	logger.WithFields(map[string]interface{}{
		"profile_store":  cfg.ProfileStore,
		"identity_store": cfg.IdentityStore,
	}).Info("Stores initialized")

	// Initialize Redis client if Redis URL is configured
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without rate limiting")
		} else {
			c.RedisClient = client
			c.Limiter = service.NewDeliveryLimiter(client, cfg.RateLimitPerHour, logger)
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without rate limiting")
	}

	c.Reconciler = service.NewReconciler(c.Repositories.Profiles, c.Repositories.Identities, logger)
	return c, nil
}
