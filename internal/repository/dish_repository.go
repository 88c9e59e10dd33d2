package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// DishRepository defines persistence access for menu items.
type DishRepository interface {
	Create(ctx context.Context, dish *domain.Dish) error
	Update(ctx context.Context, dish *domain.Dish) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Dish, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Dish, error)
}

type dishRepository struct {
	pool *pgxpool.Pool
}

// NewDishRepository returns a Postgres-backed implementation.
func NewDishRepository(pool *pgxpool.Pool) DishRepository {
	return &dishRepository{pool: pool}
}

func (r *dishRepository) Create(ctx context.Context, dish *domain.Dish) error {
	const query = `
        INSERT INTO dishes (restaurant_id, name, price, photo, description)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		dish.RestaurantID,
		dish.Name,
		dish.Price,
		dish.Photo,
		dish.Description,
	).Scan(&dish.ID, &dish.CreatedAt, &dish.UpdatedAt)
}

func (r *dishRepository) Update(ctx context.Context, dish *domain.Dish) error {
	const query = `
        UPDATE dishes SET name=$1, price=$2, photo=$3, description=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		dish.Name,
		dish.Price,
		dish.Photo,
		dish.Description,
		dish.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dishRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM dishes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dishRepository) GetByID(ctx context.Context, id int64) (*domain.Dish, error) {
	const query = `
        SELECT id, restaurant_id, name, price, photo, description, created_at, updated_at
        FROM dishes WHERE id=$1`

	var dish domain.Dish
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&dish.ID,
		&dish.RestaurantID,
		&dish.Name,
		&dish.Price,
		&dish.Photo,
		&dish.Description,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Dish, error) {
	const query = `
        SELECT id, restaurant_id, name, price, photo, description, created_at, updated_at
        FROM dishes WHERE restaurant_id=$1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := make([]*domain.Dish, 0)
	for rows.Next() {
		var dish domain.Dish
		if err := rows.Scan(
			&dish.ID,
			&dish.RestaurantID,
			&dish.Name,
			&dish.Price,
			&dish.Photo,
			&dish.Description,
			&dish.CreatedAt,
			&dish.UpdatedAt,
		); err != nil {
			return nil, err
		}
		dishes = append(dishes, &dish)
	}
	return dishes, rows.Err()
}
