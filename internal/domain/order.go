package domain

import "time"

// OrderStatus represents lifecycle states for an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCooking   OrderStatus = "COOKING"
	OrderStatusPickedUp  OrderStatus = "PICKED_UP"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// Order is a purchase placed by a CLIENT against a restaurant.
type Order struct {
	ID           int64
	CustomerID   int64
	RestaurantID int64
	DriverID     *int64
	Total        int
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem references a dish within an order.
type OrderItem struct {
	ID       int64
	OrderID  int64
	DishID   int64
	Quantity int
}
