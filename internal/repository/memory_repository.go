package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skool-sync/internal/domain"

	"github.com/google/uuid"
)

// MemoryProfileRepository keeps profiles in process memory. It backs local
// runs (PROFILE_STORE=memory) and tests.
type MemoryProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]*domain.ProfileRecord
	order    []string
	now      func() time.Time
}

// NewMemoryProfileRepository creates an empty in-memory profile store
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[string]*domain.ProfileRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FindByEmail returns the earliest-created profile with the given email
func (r *MemoryProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.ProfileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		if p := r.profiles[id]; p.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

// Create inserts a new profile
func (r *MemoryProfileRepository) Create(ctx context.Context, profile *domain.ProfileRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stored := *profile
	stored.ID = uuid.NewString()
	stored.SkoolJoinDate = now
	stored.CreatedAt = now
	stored.LastSyncFromSkool = now

	r.profiles[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return stored.ID, nil
}

// MarkMember updates membership fields on an existing profile
func (r *MemoryProfileRepository) MarkMember(ctx context.Context, id string, update *domain.MembershipUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s not found", id)
	}

	now := r.now()
	p.SkoolMember = true
	p.SkoolID = update.SkoolID
	p.SkoolJoinDate = now
	p.SkoolStatus = domain.MemberStatusActive
	p.LastSyncFromSkool = now
	p.SkoolData = update.SkoolData
	return nil
}

// LinkIdentity stores the identity id on the profile
func (r *MemoryProfileRepository) LinkIdentity(ctx context.Context, id, identityID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s not found", id)
	}
	p.FirebaseAuthID = identityID
	p.LastAuthSync = r.now()
	return nil
}

// Get returns a copy of the profile with the given id
func (r *MemoryProfileRepository) Get(id string) (*domain.ProfileRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, false
	}
	copied := *p
	return &copied, true
}

// CountByEmail returns how many profiles carry the given email
func (r *MemoryProfileRepository) CountByEmail(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range r.profiles {
		if p.Email == email {
			n++
		}
	}
	return n
}

// MemoryIdentityRepository keeps identities in process memory
type MemoryIdentityRepository struct {
	mu         sync.Mutex
	identities map[string]*domain.IdentityRecord
	byEmail    map[string]string
	passwords  map[string]string
}

// NewMemoryIdentityRepository creates an empty in-memory identity store
func NewMemoryIdentityRepository() *MemoryIdentityRepository {
	return &MemoryIdentityRepository{
		identities: make(map[string]*domain.IdentityRecord),
		byEmail:    make(map[string]string),
		passwords:  make(map[string]string),
	}
}

// LookupByEmail finds an identity by email
func (r *MemoryIdentityRepository) LookupByEmail(ctx context.Context, email string) domain.IdentityLookup {
	r.mu.Lock()
	defer r.mu.Unlock()

	uid, ok := r.byEmail[email]
	if !ok {
		return domain.NotFound()
	}
	return domain.Found(r.snapshot(uid))
}

// Create creates an identity; emails are unique as in the real auth service
func (r *MemoryIdentityRepository) Create(ctx context.Context, identity *domain.NewIdentity) (*domain.IdentityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[identity.Email]; exists {
		return nil, fmt.Errorf("identity with email %s already exists", identity.Email)
	}
	if len(identity.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	record := &domain.IdentityRecord{
		UID:           uuid.NewString(),
		Email:         identity.Email,
		DisplayName:   identity.DisplayName,
		EmailVerified: identity.EmailVerified,
	}
	r.identities[record.UID] = record
	r.byEmail[record.Email] = record.UID
	r.passwords[record.UID] = identity.Password
	return r.snapshot(record.UID), nil
}

// SetCustomClaims replaces the identity's claims
func (r *MemoryIdentityRepository) SetCustomClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.identities[uid]
	if !ok {
		return fmt.Errorf("identity %s not found", uid)
	}

	replaced := make(map[string]interface{}, len(claims))
	for k, v := range claims {
		replaced[k] = v
	}
	record.CustomClaims = replaced
	return nil
}

// Seed inserts an identity directly, bypassing creation rules
func (r *MemoryIdentityRepository) Seed(record *domain.IdentityRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *record
	r.identities[copied.UID] = &copied
	r.byEmail[copied.Email] = copied.UID
}

// Get returns a copy of the identity with the given uid
func (r *MemoryIdentityRepository) Get(uid string) (*domain.IdentityRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.identities[uid]; !ok {
		return nil, false
	}
	return r.snapshot(uid), true
}

// Password returns the password an identity was created with
func (r *MemoryIdentityRepository) Password(uid string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passwords[uid]
}

// Count returns the number of stored identities
func (r *MemoryIdentityRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.identities)
}

func (r *MemoryIdentityRepository) snapshot(uid string) *domain.IdentityRecord {
	record := *r.identities[uid]
	if record.CustomClaims != nil {
		claims := make(map[string]interface{}, len(record.CustomClaims))
		for k, v := range record.CustomClaims {
			claims[k] = v
		}
		record.CustomClaims = claims
	}
	return &record
}
