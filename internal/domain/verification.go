package domain

import "time"

// Verification holds a pending email-verification code for a user.
type Verification struct {
	ID        int64
	Code      string
	UserID    int64
	CreatedAt time.Time
}
