package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// HeaderToken is the transport header carrying the opaque token.
const HeaderToken = "x-jwt"

const principalKey = "auth_principal"

// ContextMiddleware builds the per-request call context: it extracts the
// token header, resolves the principal and attaches it to the request scope.
// It runs once per inbound operation, before any role gate or handler, and
// never fails the request itself; a missing or invalid token simply leaves
// the caller anonymous for the gate to judge.
type ContextMiddleware struct {
	resolver *IdentityResolver
}

// NewContextMiddleware constructs the middleware.
func NewContextMiddleware(resolver *IdentityResolver) *ContextMiddleware {
	return &ContextMiddleware{resolver: resolver}
}

// Handle resolves the caller identity and continues the chain unconditionally.
func (m *ContextMiddleware) Handle(c *fiber.Ctx) error {
	if principal := m.resolver.Resolve(c.Context(), c.Get(HeaderToken)); principal != nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.User)
	return principal, ok
}
