package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

const restaurantColumns = `id, name, cover_image, address, category_id, owner_id,
        is_promoted, promote_until, created_at, updated_at`

// RestaurantRepository defines persistence access for restaurants.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	Update(ctx context.Context, restaurant *domain.Restaurant) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Restaurant, int64, error)
	ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]*domain.Restaurant, int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Restaurant, error)
	Search(ctx context.Context, term string, offset, limit int) ([]*domain.Restaurant, int64, error)
	FindExpiredPromoted(ctx context.Context, now time.Time) ([]*domain.Restaurant, error)
}

type restaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository returns a Postgres-backed implementation.
func NewRestaurantRepository(pool *pgxpool.Pool) RestaurantRepository {
	return &restaurantRepository{pool: pool}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	const query = `
        INSERT INTO restaurants (name, cover_image, address, category_id, owner_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		restaurant.Name,
		restaurant.CoverImage,
		restaurant.Address,
		restaurant.CategoryID,
		restaurant.OwnerID,
	).Scan(&restaurant.ID, &restaurant.CreatedAt, &restaurant.UpdatedAt)
}

func (r *restaurantRepository) Update(ctx context.Context, restaurant *domain.Restaurant) error {
	const query = `
        UPDATE restaurants
        SET name=$1, cover_image=$2, address=$3, category_id=$4,
            is_promoted=$5, promote_until=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		restaurant.Name,
		restaurant.CoverImage,
		restaurant.Address,
		restaurant.CategoryID,
		restaurant.IsPromoted,
		restaurant.PromoteUntil,
		restaurant.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *restaurantRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM restaurants WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	const query = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanRestaurant(row)
}

func (r *restaurantRepository) List(ctx context.Context, offset, limit int) ([]*domain.Restaurant, int64, error) {
	const query = `SELECT ` + restaurantColumns + `
        FROM restaurants
        ORDER BY is_promoted DESC, id ASC
        OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	restaurants, err := collectRestaurants(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

func (r *restaurantRepository) ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]*domain.Restaurant, int64, error) {
	const query = `SELECT ` + restaurantColumns + `
        FROM restaurants
        WHERE category_id=$1
        ORDER BY is_promoted DESC, id ASC
        OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, categoryID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	restaurants, err := collectRestaurants(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM restaurants WHERE category_id=$1`, categoryID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

func (r *restaurantRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Restaurant, error) {
	const query = `SELECT ` + restaurantColumns + `
        FROM restaurants WHERE owner_id=$1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRestaurants(rows)
}

func (r *restaurantRepository) Search(ctx context.Context, term string, offset, limit int) ([]*domain.Restaurant, int64, error) {
	const query = `SELECT ` + restaurantColumns + `
        FROM restaurants
        WHERE name ILIKE '%' || $1 || '%'
        ORDER BY is_promoted DESC, id ASC
        OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, term, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	restaurants, err := collectRestaurants(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM restaurants WHERE name ILIKE '%' || $1 || '%'`, term,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

func (r *restaurantRepository) FindExpiredPromoted(ctx context.Context, now time.Time) ([]*domain.Restaurant, error) {
	const query = `SELECT ` + restaurantColumns + `
        FROM restaurants
        WHERE is_promoted = TRUE AND promote_until <= $1`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRestaurants(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.CoverImage,
		&restaurant.Address,
		&restaurant.CategoryID,
		&restaurant.OwnerID,
		&restaurant.IsPromoted,
		&restaurant.PromoteUntil,
		&restaurant.CreatedAt,
		&restaurant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func collectRestaurants(rows pgx.Rows) ([]*domain.Restaurant, error) {
	restaurants := make([]*domain.Restaurant, 0)
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}
