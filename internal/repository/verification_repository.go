package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// VerificationRepository defines persistence access for email verifications.
type VerificationRepository interface {
	Create(ctx context.Context, verification *domain.Verification) error
	GetByCode(ctx context.Context, code string) (*domain.Verification, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

type verificationRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationRepository returns a Postgres-backed implementation.
func NewVerificationRepository(pool *pgxpool.Pool) VerificationRepository {
	return &verificationRepository{pool: pool}
}

func (r *verificationRepository) Create(ctx context.Context, verification *domain.Verification) error {
	const query = `
        INSERT INTO verifications (code, user_id)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		verification.Code,
		verification.UserID,
	).Scan(&verification.ID, &verification.CreatedAt)
}

func (r *verificationRepository) GetByCode(ctx context.Context, code string) (*domain.Verification, error) {
	const query = `
        SELECT id, code, user_id, created_at
        FROM verifications WHERE code=$1`

	var verification domain.Verification
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&verification.ID,
		&verification.Code,
		&verification.UserID,
		&verification.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM verifications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *verificationRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM verifications WHERE user_id=$1`, userID)
	return err
}
