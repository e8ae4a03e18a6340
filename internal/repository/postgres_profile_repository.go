package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"skool-sync/internal/domain"
	"skool-sync/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// postgresProfileRepository stores member profiles in the member_profiles table
type postgresProfileRepository struct {
	db *database.PostgresDB
}

// NewPostgresProfileRepository creates a profile repository backed by PostgreSQL
func NewPostgresProfileRepository(db *database.PostgresDB) ProfileRepository {
	return &postgresProfileRepository{
		db: db,
	}
}

// FindByEmail returns the oldest profile with the given email
func (r *postgresProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.ProfileRecord, error) {
	query := `
		SELECT id, email, name, skool_member, COALESCE(skool_id, ''), skool_status,
		       is_paid, source, COALESCE(firebase_auth_id, '')
		FROM member_profiles
		WHERE email = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var id uuid.UUID
	profile := &domain.ProfileRecord{}
	err := r.db.Pool.QueryRow(ctx, query, email).Scan(
		&id,
		&profile.Email,
		&profile.Name,
		&profile.SkoolMember,
		&profile.SkoolID,
		&profile.SkoolStatus,
		&profile.IsPaid,
		&profile.Source,
		&profile.FirebaseAuthID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	profile.ID = id.String()
	return profile, nil
}

// Create inserts a new profile row
func (r *postgresProfileRepository) Create(ctx context.Context, profile *domain.ProfileRecord) (string, error) {
	auditJSON, err := marshalAudit(profile.SkoolData)
	if err != nil {
		return "", err
	}

	query := `
		INSERT INTO member_profiles (
			id, email, name, skool_member, skool_id, skool_join_date, skool_status,
			is_paid, source, created_at, last_sync_from_skool, skool_data
		)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6, $7, $8, NOW(), NOW(), $9)
	`

	id := uuid.New()
	_, err = r.db.Pool.Exec(ctx, query,
		id,
		profile.Email,
		profile.Name,
		profile.SkoolMember,
		nullable(profile.SkoolID),
		profile.SkoolStatus,
		profile.IsPaid,
		profile.Source,
		auditJSON,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	return id.String(), nil
}

// MarkMember updates the membership columns in place
func (r *postgresProfileRepository) MarkMember(ctx context.Context, id string, update *domain.MembershipUpdate) error {
	auditJSON, err := marshalAudit(update.SkoolData)
	if err != nil {
		return err
	}

	query := `
		UPDATE member_profiles
		SET skool_member = true,
		    skool_id = $2,
		    skool_join_date = NOW(),
		    skool_status = $3,
		    last_sync_from_skool = NOW(),
		    skool_data = $4
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, nullable(update.SkoolID), domain.MemberStatusActive, auditJSON)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", id)
	}
	return nil
}

// LinkIdentity stores the auth uid on the profile row
func (r *postgresProfileRepository) LinkIdentity(ctx context.Context, id, identityID string) error {
	query := `
		UPDATE member_profiles
		SET firebase_auth_id = $2, last_auth_sync = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, identityID)
	if err != nil {
		return fmt.Errorf("failed to link identity to profile %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s not found", id)
	}
	return nil
}

func marshalAudit(blob *domain.AuditBlob) ([]byte, error) {
	if blob == nil {
		return nil, nil
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit data: %w", err)
	}
	return data, nil
}
