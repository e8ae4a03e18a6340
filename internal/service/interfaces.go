package service

import (
	"context"

	"skool-sync/internal/domain"
)

// MemberSyncer mirrors a normalized member into the profile and identity stores
type MemberSyncer interface {
	// Reconcile never returns an error; failures are reported in the result
	Reconcile(ctx context.Context, member *domain.Member) *domain.SyncResult
}
