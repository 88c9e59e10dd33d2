package domain

import "time"

// Restaurant is a storefront owned by an OWNER account.
// IsPromoted and PromoteUntil are written together by exactly two writers:
// the payment flow (sets both) and the promotion sweeper (clears both).
type Restaurant struct {
	ID           int64
	Name         string
	CoverImage   string
	Address      string
	CategoryID   *int64
	OwnerID      int64
	IsPromoted   bool
	PromoteUntil *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category groups restaurants for browsing.
type Category struct {
	ID         int64
	Name       string
	Slug       string
	CoverImage string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Dish is a menu item belonging to a restaurant.
type Dish struct {
	ID           int64
	RestaurantID int64
	Name         string
	Price        int
	Photo        string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
