package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skool-sync/internal/domain"
	"skool-sync/internal/repository"
	"skool-sync/pkg/logger"

	"github.com/google/uuid"
)

// Reconciler mirrors Skool members into the profile and identity stores.
// Every store call runs sequentially; the first failure aborts the sync
// without retry or compensation.
type Reconciler struct {
	profiles    repository.ProfileRepository
	identities  repository.IdentityRepository
	logger      *logger.Logger
	now         func() time.Time
	newPassword func() string
}

// NewReconciler creates a new member reconciler
func NewReconciler(profiles repository.ProfileRepository, identities repository.IdentityRepository, logger *logger.Logger) *Reconciler {
	return &Reconciler{
		profiles:    profiles,
		identities:  identities,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		newPassword: temporaryPassword,
	}
}

// Reconcile syncs one member and reports the outcome
func (r *Reconciler) Reconcile(ctx context.Context, member *domain.Member) *domain.SyncResult {
	log := r.logger.ForMember(member.Email, member.ExternalID)
	log.Info("Syncing Skool member")

	result, err := r.reconcile(ctx, member, log)
	if err != nil {
		log.WithError(err).Error("Member sync failed")
		return &domain.SyncResult{Success: false, Error: err.Error()}
	}

	log.WithFields(map[string]interface{}{
		"profile_id":  result.ProfileID,
		"identity_id": result.IdentityID,
		"action":      result.Action,
	}).Info("Member sync completed")
	return result
}

func (r *Reconciler) reconcile(ctx context.Context, member *domain.Member, log *logger.Logger) (*domain.SyncResult, error) {
	profileID, action, err := r.upsertProfile(ctx, member)
	if err != nil {
		return nil, err
	}
	log.WithFields(map[string]interface{}{
		"profile_id": profileID,
		"action":     action,
	}).Debug("Profile synced")

	identity, err := r.upsertIdentity(ctx, member, log)
	if err != nil {
		return nil, err
	}

	if err := r.profiles.LinkIdentity(ctx, profileID, identity.UID); err != nil {
		return nil, err
	}

	return &domain.SyncResult{
		Success:    true,
		ProfileID:  profileID,
		IdentityID: identity.UID,
		Action:     action,
	}, nil
}

// upsertProfile updates the profile registered under the member's email or creates one
func (r *Reconciler) upsertProfile(ctx context.Context, member *domain.Member) (string, string, error) {
	existing, err := r.profiles.FindByEmail(ctx, member.Email)
	if err != nil {
		return "", "", err
	}

	audit := r.auditBlob(member)

	if existing != nil {
		err := r.profiles.MarkMember(ctx, existing.ID, &domain.MembershipUpdate{
			SkoolID:   member.ExternalID,
			SkoolData: audit,
		})
		if err != nil {
			return "", "", err
		}
		return existing.ID, domain.ActionUpdated, nil
	}

	id, err := r.profiles.Create(ctx, &domain.ProfileRecord{
		Email:       member.Email,
		Name:        member.Name,
		SkoolMember: true,
		SkoolID:     member.ExternalID,
		SkoolStatus: domain.MemberStatusActive,
		IsPaid:      member.IsPaid,
		Source:      domain.SourceSkoolDirect,
		SkoolData:   audit,
	})
	if err != nil {
		return "", "", err
	}
	return id, domain.ActionCreated, nil
}

// upsertIdentity overwrites the claims of an existing identity or creates a new
// one flagged for a password reset. Claims are replaced wholesale, never merged.
func (r *Reconciler) upsertIdentity(ctx context.Context, member *domain.Member, log *logger.Logger) (*domain.IdentityRecord, error) {
	claims := domain.MemberClaims{
		SkoolMember: true,
		SkoolID:     member.ExternalID,
		IsPaid:      member.IsPaid,
	}

	lookup := r.identities.LookupByEmail(ctx, member.Email)

	switch lookup.Outcome {
	case domain.LookupFound:
		log.WithField("identity_id", lookup.Identity.UID).Debug("Auth user already exists")
		if err := r.identities.SetCustomClaims(ctx, lookup.Identity.UID, claims.Map()); err != nil {
			return nil, err
		}
		return lookup.Identity, nil

	case domain.LookupNotFound:
		log.Debug("Creating auth user")
		identity, err := r.identities.Create(ctx, &domain.NewIdentity{
			Email:         member.Email,
			DisplayName:   member.Name,
			Password:      r.newPassword(),
			EmailVerified: false,
		})
		if err != nil {
			return nil, err
		}

		claims.NeedsPasswordReset = true
		if err := r.identities.SetCustomClaims(ctx, identity.UID, claims.Map()); err != nil {
			return nil, err
		}
		return identity, nil

	default:
		if lookup.Err != nil {
			return nil, lookup.Err
		}
		return nil, fmt.Errorf("identity lookup for %s failed", member.Email)
	}
}

func (r *Reconciler) auditBlob(member *domain.Member) *domain.AuditBlob {
	return &domain.AuditBlob{
		JoinMethod:   domain.JoinMethodSkool,
		SyncDate:     r.now().Format(time.RFC3339Nano),
		OriginalData: member.Raw,
	}
}

// temporaryPassword returns a random one-off credential. The suffix satisfies
// mixed-class password policies on the identity store.
func temporaryPassword() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return token[:16] + "A1!"
}
