package auth

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// UserLookup is the narrow read capability the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// IdentityResolver turns a raw token header value into a principal.
// Resolution never fails a request: missing, invalid or orphaned tokens all
// degrade to an anonymous caller and it is the role gate's job to deny.
type IdentityResolver struct {
	tokens *TokenManager
	users  UserLookup
}

// NewIdentityResolver constructs a resolver.
func NewIdentityResolver(tokens *TokenManager, users UserLookup) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

// Resolve returns the principal for the raw header value, or nil for an
// anonymous caller. Safe to call once per inbound operation; holds no state
// between calls.
func (r *IdentityResolver) Resolve(ctx context.Context, raw string) *domain.User {
	if raw == "" {
		return nil
	}
	subjectID, err := r.tokens.Verify(raw)
	if err != nil {
		return nil
	}
	user, err := r.users.GetByID(ctx, subjectID)
	if err != nil {
		// deleted account after token issuance degrades to anonymous
		return nil
	}
	return user
}
