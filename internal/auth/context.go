package auth

import (
	"context"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/doorline/leadcapture-api/internal/repository"
)

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity adds the authenticated identity to the context
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// FromContext extracts the identity from the context
func FromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// MustFromContext extracts the identity or panics
func MustFromContext(ctx context.Context) *domain.Identity {
	identity, ok := FromContext(ctx)
	if !ok {
		panic("identity not found in context")
	}
	return identity
}

// LeadScope returns the lead visibility for the caller. Admins see every
// lead, users only their own submissions.
func LeadScope(ctx context.Context) repository.LeadScope {
	identity, ok := FromContext(ctx)
	if !ok {
		return repository.LeadScope{}
	}
	if identity.IsAdmin() {
		return repository.AllLeads
	}
	return repository.OwnLeads(identity.Email)
}
