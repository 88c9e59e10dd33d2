package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// ErrEmptyOrder rejects orders without items.
var ErrEmptyOrder = errors.New("order has no items")

// OrderService handles order creation and role-scoped listing.
type OrderService struct {
	orders      repository.OrderRepository
	restaurants repository.RestaurantRepository
	dishes      repository.DishRepository
	dispatcher  events.Dispatcher
}

// OrderDependencies bundles repositories for the order service.
type OrderDependencies struct {
	OrderRepo      repository.OrderRepository
	RestaurantRepo repository.RestaurantRepository
	DishRepo       repository.DishRepository
	Dispatcher     events.Dispatcher
}

// OrderItemInput describes one line of a new order.
type OrderItemInput struct {
	DishID   int64
	Quantity int
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:      deps.OrderRepo,
		restaurants: deps.RestaurantRepo,
		dishes:      deps.DishRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateOrder places an order for the client; the total is computed from the
// current menu prices.
func (s *OrderService) CreateOrder(ctx context.Context, customer *domain.User, restaurantID int64, items []OrderItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	total := 0
	orderItems := make([]*domain.OrderItem, 0, len(items))
	for _, item := range items {
		dish, err := s.dishes.GetByID(ctx, item.DishID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrDishNotFound
			}
			return nil, err
		}
		if dish.RestaurantID != restaurant.ID {
			return nil, ErrDishNotFound
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += dish.Price * qty
		orderItems = append(orderItems, &domain.OrderItem{DishID: dish.ID, Quantity: qty})
	}

	order := &domain.Order{
		CustomerID:   customer.ID,
		RestaurantID: restaurant.ID,
		Total:        total,
		Status:       domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order, orderItems); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventOrderCreated,
			Timestamp: time.Now(),
			Payload: events.OrderCreatedPayload{
				OrderID:      order.ID,
				CustomerID:   customer.ID,
				RestaurantID: restaurant.ID,
				Total:        total,
			},
		})
	}
	return order, nil
}

// GetOrders lists orders visible to the caller according to their role.
func (s *OrderService) GetOrders(ctx context.Context, caller *domain.User) ([]*domain.Order, error) {
	switch caller.Role {
	case domain.RoleOwner:
		return s.orders.ListByOwner(ctx, caller.ID)
	case domain.RoleDelivery:
		return s.orders.ListForDriver(ctx, caller.ID)
	default:
		return s.orders.ListByCustomer(ctx, caller.ID)
	}
}
