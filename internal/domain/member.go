package domain

import (
	"sort"
	"time"
)

// Sync actions reported back to the webhook caller
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// Profile field values written on every sync
const (
	MemberStatusActive = "active"
	SourceSkoolDirect  = "skool_direct"
	JoinMethodSkool    = "direct_skool"
)

// MemberEvent is the raw, untrusted webhook payload
type MemberEvent map[string]interface{}

// Keys returns the sorted top-level field names of the event
func (e MemberEvent) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Member is the normalized view of a MemberEvent
type Member struct {
	Email      string
	Name       string
	ExternalID string // Skool member id, empty when the event carries none
	IsPaid     bool
	Raw        MemberEvent
}

// AuditBlob preserves the original event on the profile
type AuditBlob struct {
	JoinMethod   string                 `json:"joinMethod" firestore:"joinMethod"`
	SyncDate     string                 `json:"syncDate" firestore:"syncDate"`
	OriginalData map[string]interface{} `json:"originalData" firestore:"originalData"`
}

// ProfileRecord is a member profile in the profile store
type ProfileRecord struct {
	ID                string     `json:"id" firestore:"-"`
	Email             string     `json:"email" firestore:"email"`
	Name              string     `json:"name" firestore:"name"`
	SkoolMember       bool       `json:"skoolMember" firestore:"skoolMember"`
	SkoolID           string     `json:"skoolId,omitempty" firestore:"skoolId"`
	SkoolJoinDate     time.Time  `json:"skoolJoinDate" firestore:"skoolJoinDate"`
	SkoolStatus       string     `json:"skoolStatus" firestore:"skoolStatus"`
	IsPaid            bool       `json:"isPaid" firestore:"isPaid"`
	Source            string     `json:"source" firestore:"source"`
	CreatedAt         time.Time  `json:"createdAt" firestore:"createdAt"`
	LastSyncFromSkool time.Time  `json:"lastSyncFromSkool" firestore:"lastSyncFromSkool"`
	SkoolData         *AuditBlob `json:"skoolData,omitempty" firestore:"skoolData"`
	FirebaseAuthID    string     `json:"firebaseAuthId,omitempty" firestore:"firebaseAuthId"`
	LastAuthSync      time.Time  `json:"lastAuthSync" firestore:"lastAuthSync"`
}

// MembershipUpdate is what a repeat sync writes onto an existing profile.
// Join and sync timestamps are assigned by the store.
type MembershipUpdate struct {
	SkoolID   string
	SkoolData *AuditBlob
}

// IdentityRecord is a login identity in the identity store
type IdentityRecord struct {
	UID           string                 `json:"uid"`
	Email         string                 `json:"email"`
	DisplayName   string                 `json:"displayName"`
	EmailVerified bool                   `json:"emailVerified"`
	CustomClaims  map[string]interface{} `json:"customClaims,omitempty"`
}

// NewIdentity carries the fields needed to create an identity
type NewIdentity struct {
	Email         string
	DisplayName   string
	Password      string
	EmailVerified bool
}

// MemberClaims are the custom claims attached to a member identity
type MemberClaims struct {
	SkoolMember        bool
	SkoolID            string
	IsPaid             bool
	NeedsPasswordReset bool
}

// Map renders the claims in the shape stored on the identity.
// skoolId is left out when unknown and needsPasswordReset only appears when set.
func (c MemberClaims) Map() map[string]interface{} {
	claims := map[string]interface{}{
		"skoolMember": c.SkoolMember,
		"isPaid":      c.IsPaid,
	}
	if c.SkoolID != "" {
		claims["skoolId"] = c.SkoolID
	}
	if c.NeedsPasswordReset {
		claims["needsPasswordReset"] = true
	}
	return claims
}

// LookupOutcome tags the result of an identity lookup
type LookupOutcome int

const (
	LookupFailed LookupOutcome = iota
	LookupFound
	LookupNotFound
)

// IdentityLookup is the result of looking up an identity by email.
// Absence is an ordinary outcome; only LookupFailed carries an error.
type IdentityLookup struct {
	Outcome  LookupOutcome
	Identity *IdentityRecord
	Err      error
}

// Found wraps an existing identity
func Found(identity *IdentityRecord) IdentityLookup {
	return IdentityLookup{Outcome: LookupFound, Identity: identity}
}

// NotFound reports that no identity exists for the email
func NotFound() IdentityLookup {
	return IdentityLookup{Outcome: LookupNotFound}
}

// LookupError reports a failed lookup
func LookupError(err error) IdentityLookup {
	return IdentityLookup{Outcome: LookupFailed, Err: err}
}

// SyncResult describes the outcome of one reconciliation
type SyncResult struct {
	Success    bool   `json:"success"`
	ProfileID  string `json:"userId,omitempty"`
	IdentityID string `json:"authUserId,omitempty"`
	Action     string `json:"action,omitempty"`
	Error      string `json:"error,omitempty"`
}
