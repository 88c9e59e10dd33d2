package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// Requirement is the declared set of roles permitted to invoke an operation.
// The Any form admits every authenticated principal regardless of role.
type Requirement struct {
	any   bool
	roles map[domain.UserRole]struct{}
}

// Require builds a requirement satisfied by the listed roles.
func Require(roles ...domain.UserRole) Requirement {
	set := make(map[domain.UserRole]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return Requirement{roles: set}
}

// RequireAny builds a requirement satisfied by any authenticated principal.
func RequireAny() Requirement {
	return Requirement{any: true}
}

// Allow evaluates a requirement against a principal. A nil requirement means
// the operation is public. Pure; no side effects.
func Allow(req *Requirement, principal *domain.User) bool {
	if req == nil {
		return true
	}
	if principal == nil {
		return false
	}
	if req.any {
		return true
	}
	_, ok := req.roles[principal.Role]
	return ok
}

// Gate holds the explicit operation-name to requirement table consulted
// before dispatch. Operations absent from the table are public.
type Gate struct {
	table map[string]Requirement
}

// NewGate constructs a gate over the given table.
func NewGate(table map[string]Requirement) *Gate {
	return &Gate{table: table}
}

// Check returns the middleware enforcing the declared requirement for the
// named operation. On deny the handler never runs and the caller receives a
// uniform forbidden error that does not disclose which roles were required.
func (g *Gate) Check(operation string) fiber.Handler {
	req, declared := g.table[operation]
	return func(c *fiber.Ctx) error {
		if !declared {
			return c.Next()
		}
		principal, _ := PrincipalFromContext(c)
		if !Allow(&req, principal) {
			return apperrors.NewForbidden("forbidden")
		}
		return c.Next()
	}
}
