package repository

import (
	"context"
	"fmt"

	"skool-sync/internal/domain"

	"firebase.google.com/go/v4/auth"
)

// authClient is the subset of *auth.Client used for member identities
type authClient interface {
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

// FirebaseIdentityRepository manages member identities in Firebase Authentication
type FirebaseIdentityRepository struct {
	client     authClient
	isNotFound func(error) bool
}

// NewFirebaseIdentityRepository creates an identity repository backed by Firebase Auth
func NewFirebaseIdentityRepository(client *auth.Client) IdentityRepository {
	return &FirebaseIdentityRepository{
		client:     client,
		isNotFound: auth.IsUserNotFound,
	}
}

// LookupByEmail fetches the identity registered under email
func (r *FirebaseIdentityRepository) LookupByEmail(ctx context.Context, email string) domain.IdentityLookup {
	user, err := r.client.GetUserByEmail(ctx, email)
	if err != nil {
		if r.isNotFound(err) {
			return domain.NotFound()
		}
		return domain.LookupError(fmt.Errorf("failed to get auth user by email: %w", err))
	}
	return domain.Found(toIdentityRecord(user))
}

// Create registers a new auth user
func (r *FirebaseIdentityRepository) Create(ctx context.Context, identity *domain.NewIdentity) (*domain.IdentityRecord, error) {
	params := (&auth.UserToCreate{}).
		Email(identity.Email).
		Password(identity.Password).
		EmailVerified(identity.EmailVerified)
	// Firebase rejects an empty display name
	if identity.DisplayName != "" {
		params = params.DisplayName(identity.DisplayName)
	}

	user, err := r.client.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth user: %w", err)
	}
	return toIdentityRecord(user), nil
}

// SetCustomClaims replaces the user's custom claims
func (r *FirebaseIdentityRepository) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if err := r.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("failed to set custom claims for %s: %w", uid, err)
	}
	return nil
}

func toIdentityRecord(user *auth.UserRecord) *domain.IdentityRecord {
	record := &domain.IdentityRecord{
		EmailVerified: user.EmailVerified,
		CustomClaims:  user.CustomClaims,
	}
	if user.UserInfo != nil {
		record.UID = user.UID
		record.Email = user.Email
		record.DisplayName = user.DisplayName
	}
	return record
}
