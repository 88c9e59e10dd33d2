package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

const orderColumns = `id, customer_id, restaurant_id, driver_id, total, status, created_at, updated_at`

// OrderRepository defines persistence access for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Order, error)
	ListForDriver(ctx context.Context, driverID int64) ([]*domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO orders (customer_id, restaurant_id, total, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, query,
		order.CustomerID,
		order.RestaurantID,
		order.Total,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	for _, item := range items {
		item.OrderID = order.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, dish_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
			item.OrderID, item.DishID, item.Quantity,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`

	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.RestaurantID,
		&order.DriverID,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY id DESC`
	return r.queryOrders(ctx, query, customerID)
}

func (r *orderRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Order, error) {
	const query = `SELECT ` + orderColumns + `
        FROM orders
        WHERE restaurant_id IN (SELECT id FROM restaurants WHERE owner_id=$1)
        ORDER BY id DESC`
	return r.queryOrders(ctx, query, ownerID)
}

func (r *orderRepository) ListForDriver(ctx context.Context, driverID int64) ([]*domain.Order, error) {
	const query = `SELECT ` + orderColumns + `
        FROM orders
        WHERE driver_id=$1 OR (driver_id IS NULL AND status='COOKING')
        ORDER BY id DESC`
	return r.queryOrders(ctx, query, driverID)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.RestaurantID,
			&order.DriverID,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}
