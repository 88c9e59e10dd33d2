package dto

import "time"

// CreateOrderRequest payload for placing an order.
type CreateOrderRequest struct {
	RestaurantID int64              `json:"restaurant_id"`
	Items        []OrderItemRequest `json:"items"`
}

// OrderItemRequest one line of an order.
type OrderItemRequest struct {
	DishID   int64 `json:"dish_id"`
	Quantity int   `json:"quantity"`
}

// OrderResponse is the public shape of an order.
type OrderResponse struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	RestaurantID int64     `json:"restaurant_id"`
	DriverID     *int64    `json:"driver_id,omitempty"`
	Total        int       `json:"total"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
