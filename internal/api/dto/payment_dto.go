package dto

import "time"

// CreatePaymentRequest payload for a promotion purchase.
type CreatePaymentRequest struct {
	TransactionID string `json:"transaction_id"`
	RestaurantID  int64  `json:"restaurant_id"`
}

// PaymentResponse is the public shape of a payment.
type PaymentResponse struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transaction_id"`
	RestaurantID  int64     `json:"restaurant_id"`
	CreatedAt     time.Time `json:"created_at"`
}
