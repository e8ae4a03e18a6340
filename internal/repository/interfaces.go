package repository

import (
	"context"

	"skool-sync/internal/domain"
)

// ProfileRepository defines the operations the reconciler needs from the profile store
type ProfileRepository interface {
	// FindByEmail returns the first profile with the given email, or nil when none exists
	FindByEmail(ctx context.Context, email string) (*domain.ProfileRecord, error)

	// Create inserts a new profile and returns its store-assigned id.
	// Join, sync and creation timestamps are assigned by the store.
	Create(ctx context.Context, profile *domain.ProfileRecord) (string, error)

	// MarkMember flags an existing profile as an active member and replaces its audit blob
	MarkMember(ctx context.Context, id string, update *domain.MembershipUpdate) error

	// LinkIdentity writes the identity id onto the profile
	LinkIdentity(ctx context.Context, id, identityID string) error
}

// IdentityRepository defines the operations the reconciler needs from the identity store
type IdentityRepository interface {
	// LookupByEmail fetches an identity by email. A missing identity is reported
	// as domain.LookupNotFound, never as an error.
	LookupByEmail(ctx context.Context, email string) domain.IdentityLookup

	// Create creates a new identity
	Create(ctx context.Context, identity *domain.NewIdentity) (*domain.IdentityRecord, error)

	// SetCustomClaims replaces all custom claims of the identity
	SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error
}

// Repositories aggregates the two stores a sync touches
type Repositories struct {
	Profiles   ProfileRepository
	Identities IdentityRepository
}
