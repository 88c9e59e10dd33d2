package domain

import "time"

// UserRole distinguishes the three marketplace account types.
type UserRole string

const (
	RoleClient   UserRole = "CLIENT"
	RoleOwner    UserRole = "OWNER"
	RoleDelivery UserRole = "DELIVERY"
)

// ValidRole reports whether the given role is one of the known values.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleClient, RoleOwner, RoleDelivery:
		return true
	}
	return false
}

// User is the domain model for marketplace accounts.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         UserRole
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
