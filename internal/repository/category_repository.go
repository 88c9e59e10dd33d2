package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// CategoryRepository defines persistence access for categories.
type CategoryRepository interface {
	GetOrCreate(ctx context.Context, name string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	CountRestaurants(ctx context.Context, categoryID int64) (int64, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

// Slugify normalizes a category name into its lookup slug.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func (r *categoryRepository) GetOrCreate(ctx context.Context, name string) (*domain.Category, error) {
	slug := Slugify(name)

	category, err := r.GetBySlug(ctx, slug)
	if err == nil {
		return category, nil
	}

	const query = `
        INSERT INTO categories (name, slug)
        VALUES ($1, $2)
        ON CONFLICT (slug) DO UPDATE SET name = categories.name
        RETURNING id, name, slug, cover_image, created_at, updated_at`

	var created domain.Category
	if err := r.pool.QueryRow(ctx, query, strings.TrimSpace(name), slug).Scan(
		&created.ID,
		&created.Name,
		&created.Slug,
		&created.CoverImage,
		&created.CreatedAt,
		&created.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const query = `
        SELECT id, name, slug, cover_image, created_at, updated_at
        FROM categories WHERE slug=$1`

	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, slug).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.CoverImage,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	const query = `
        SELECT id, name, slug, cover_image, created_at, updated_at
        FROM categories ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.CoverImage,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) CountRestaurants(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM restaurants WHERE category_id=$1`, categoryID,
	).Scan(&count)
	return count, err
}
