package repository

import (
	"context"
	"fmt"

	"skool-sync/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Firestore field names on member profile documents
const (
	fieldEmail             = "email"
	fieldName              = "name"
	fieldSkoolMember       = "skoolMember"
	fieldSkoolID           = "skoolId"
	fieldSkoolJoinDate     = "skoolJoinDate"
	fieldSkoolStatus       = "skoolStatus"
	fieldIsPaid            = "isPaid"
	fieldCreatedAt         = "createdAt"
	fieldSource            = "source"
	fieldLastSyncFromSkool = "lastSyncFromSkool"
	fieldSkoolData         = "skoolData"
	fieldFirebaseAuthID    = "firebaseAuthId"
	fieldLastAuthSync      = "lastAuthSync"
)

// FirestoreProfileRepository stores member profiles as documents in a Firestore collection
type FirestoreProfileRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreProfileRepository creates a profile repository over the given collection
func NewFirestoreProfileRepository(client *firestore.Client, collection string) ProfileRepository {
	return &FirestoreProfileRepository{
		client:     client,
		collection: collection,
	}
}

// FindByEmail returns the first document whose email field matches
func (r *FirestoreProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.ProfileRecord, error) {
	iter := r.client.Collection(r.collection).Where(fieldEmail, "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles by email: %w", err)
	}

	// Older documents carry loosely typed fields (skoolId may be numeric),
	// so only the fields a sync reads are decoded.
	data := doc.Data()
	profile := &domain.ProfileRecord{
		ID:             doc.Ref.ID,
		Email:          stringField(data, fieldEmail),
		Name:           stringField(data, fieldName),
		SkoolStatus:    stringField(data, fieldSkoolStatus),
		FirebaseAuthID: stringField(data, fieldFirebaseAuthID),
	}
	if member, ok := data[fieldSkoolMember].(bool); ok {
		profile.SkoolMember = member
	}
	return profile, nil
}

// Create adds a new profile document with server-assigned timestamps
func (r *FirestoreProfileRepository) Create(ctx context.Context, profile *domain.ProfileRecord) (string, error) {
	doc := map[string]interface{}{
		fieldEmail:             profile.Email,
		fieldName:              profile.Name,
		fieldSkoolMember:       profile.SkoolMember,
		fieldSkoolID:           nullable(profile.SkoolID),
		fieldSkoolJoinDate:     firestore.ServerTimestamp,
		fieldSkoolStatus:       profile.SkoolStatus,
		fieldIsPaid:            profile.IsPaid,
		fieldCreatedAt:         firestore.ServerTimestamp,
		fieldSource:            profile.Source,
		fieldLastSyncFromSkool: firestore.ServerTimestamp,
		fieldSkoolData:         auditMap(profile.SkoolData),
	}

	ref, _, err := r.client.Collection(r.collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}
	return ref.ID, nil
}

// MarkMember updates the membership fields in place
func (r *FirestoreProfileRepository) MarkMember(ctx context.Context, id string, update *domain.MembershipUpdate) error {
	_, err := r.client.Collection(r.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: fieldSkoolMember, Value: true},
		{Path: fieldSkoolID, Value: nullable(update.SkoolID)},
		{Path: fieldSkoolJoinDate, Value: firestore.ServerTimestamp},
		{Path: fieldSkoolStatus, Value: domain.MemberStatusActive},
		{Path: fieldLastSyncFromSkool, Value: firestore.ServerTimestamp},
		{Path: fieldSkoolData, Value: auditMap(update.SkoolData)},
	})
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", id, err)
	}
	return nil
}

// LinkIdentity writes the auth uid onto the profile document
func (r *FirestoreProfileRepository) LinkIdentity(ctx context.Context, id, identityID string) error {
	_, err := r.client.Collection(r.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: fieldFirebaseAuthID, Value: identityID},
		{Path: fieldLastAuthSync, Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to link identity to profile %s: %w", id, err)
	}
	return nil
}

func stringField(data map[string]interface{}, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func auditMap(blob *domain.AuditBlob) map[string]interface{} {
	if blob == nil {
		return nil
	}
	return map[string]interface{}{
		"joinMethod":   blob.JoinMethod,
		"syncDate":     blob.SyncDate,
		"originalData": blob.OriginalData,
	}
}
