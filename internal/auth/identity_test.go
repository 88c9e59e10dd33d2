package auth

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

type fakeUserLookup struct {
	users map[int64]*domain.User
	calls int
}

func (f *fakeUserLookup) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.calls++
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func TestResolveAbsentTokenIsAnonymous(t *testing.T) {
	lookup := &fakeUserLookup{users: map[int64]*domain.User{}}
	resolver := NewIdentityResolver(NewTokenManager("test-secret", 0), lookup)

	if principal := resolver.Resolve(context.Background(), ""); principal != nil {
		t.Fatalf("expected anonymous for absent token, got %+v", principal)
	}
	if lookup.calls != 0 {
		t.Fatalf("lookup must not run for absent token")
	}
}

func TestResolveInvalidTokenIsAnonymous(t *testing.T) {
	lookup := &fakeUserLookup{users: map[int64]*domain.User{}}
	resolver := NewIdentityResolver(NewTokenManager("test-secret", 0), lookup)

	if principal := resolver.Resolve(context.Background(), "garbage-token"); principal != nil {
		t.Fatalf("expected anonymous for invalid token, got %+v", principal)
	}
	if lookup.calls != 0 {
		t.Fatalf("lookup must not run for invalid token")
	}
}

func TestResolveDeletedAccountIsAnonymous(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	lookup := &fakeUserLookup{users: map[int64]*domain.User{}}
	resolver := NewIdentityResolver(tm, lookup)

	token, err := tm.Sign(31337)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if principal := resolver.Resolve(context.Background(), token); principal != nil {
		t.Fatalf("expected anonymous for deleted account, got %+v", principal)
	}
	if lookup.calls != 1 {
		t.Fatalf("expected exactly one lookup, got %d", lookup.calls)
	}
}

func TestResolveReturnsPrincipal(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	owner := &domain.User{ID: 7, Email: "owner@example.com", Role: domain.RoleOwner}
	lookup := &fakeUserLookup{users: map[int64]*domain.User{7: owner}}
	resolver := NewIdentityResolver(tm, lookup)

	token, err := tm.Sign(7)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	principal := resolver.Resolve(context.Background(), token)
	if principal == nil {
		t.Fatalf("expected principal")
	}
	if principal.ID != 7 || principal.Role != domain.RoleOwner {
		t.Fatalf("unexpected principal %+v", principal)
	}
}
