package domain

import "time"

// Payment records a promotion purchase made by a restaurant owner.
type Payment struct {
	ID            int64
	TransactionID string
	UserID        int64
	RestaurantID  int64
	CreatedAt     time.Time
}
