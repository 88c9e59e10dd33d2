package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountCreated     EventType = "account_created"
	EventEmailChanged       EventType = "email_changed"
	EventPaymentCreated     EventType = "payment_created"
	EventRestaurantPromoted EventType = "restaurant_promoted"
	EventOrderCreated       EventType = "order_created"
	EventPromotionExpired   EventType = "promotion_expired"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountCreatedPayload payload.
type AccountCreatedPayload struct {
	UserID           int64  `json:"user_id"`
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
}

// EmailChangedPayload payload.
type EmailChangedPayload struct {
	UserID           int64  `json:"user_id"`
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
}

// PaymentCreatedPayload payload.
type PaymentCreatedPayload struct {
	PaymentID     int64  `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	RestaurantID  int64  `json:"restaurant_id"`
	OwnerID       int64  `json:"owner_id"`
}

// RestaurantPromotedPayload payload.
type RestaurantPromotedPayload struct {
	RestaurantID int64     `json:"restaurant_id"`
	PromoteUntil time.Time `json:"promote_until"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID      int64 `json:"order_id"`
	CustomerID   int64 `json:"customer_id"`
	RestaurantID int64 `json:"restaurant_id"`
	Total        int   `json:"total"`
}

// PromotionExpiredPayload payload.
type PromotionExpiredPayload struct {
	RestaurantID int64 `json:"restaurant_id"`
}
