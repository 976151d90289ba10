package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

// AccessRepository stores one-time email sign-in codes.
type AccessRepository interface {
	CreateAccessCode(ctx context.Context, email, codeHash, magicToken string, expiresAt time.Time) error
	GetActiveCode(ctx context.Context, email string) (*domain.AccessCode, error)
	MarkUsed(ctx context.Context, id int64) error
	ConsumeMagic(ctx context.Context, token string) (string, bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type accessRepository struct {
	pool *pgxpool.Pool
}

func NewAccessRepository(pool *pgxpool.Pool) AccessRepository {
	return &accessRepository{pool: pool}
}

const accessCols = `id, email, code_hash, magic_token, expires_at, used_at, created_at`

func (r *accessRepository) CreateAccessCode(ctx context.Context, email, codeHash, magicToken string, expiresAt time.Time) error {
	const q = `INSERT INTO guest_access_codes (email, code_hash, magic_token, expires_at)
		VALUES ($1, $2, $3, $4)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, email, codeHash, magicToken, expiresAt)
	return err
}

func (r *accessRepository) GetActiveCode(ctx context.Context, email string) (*domain.AccessCode, error) {
	const q = `SELECT ` + accessCols + ` FROM guest_access_codes
		WHERE lower(email)=lower($1) AND used_at IS NULL AND expires_at > now()
		ORDER BY created_at DESC LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var ac domain.AccessCode
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&ac.ID, &ac.Email, &ac.CodeHash, &ac.MagicToken, &ac.ExpiresAt, &ac.UsedAt, &ac.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

func (r *accessRepository) MarkUsed(ctx context.Context, id int64) error {
	const q = `UPDATE guest_access_codes SET used_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, id)
	return err
}

func (r *accessRepository) ConsumeMagic(ctx context.Context, token string) (string, bool, error) {
	const q = `UPDATE guest_access_codes SET used_at=now()
		WHERE magic_token=$1 AND used_at IS NULL AND expires_at > now()
		RETURNING email`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var email string
	err := r.pool.QueryRow(ctx, q, token).Scan(&email)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return email, true, nil
}

func (r *accessRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM guest_access_codes WHERE expires_at < now() - interval '1 day'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
