package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

type GuestRepository interface {
	Create(ctx context.Context, email, fullName string) (*domain.Guest, error)
	FindByEmail(ctx context.Context, email string) (*domain.Guest, error)
	FindByID(ctx context.Context, id int64) (*domain.Guest, error)
	UpdateProfile(ctx context.Context, id int64, req *domain.UpdateProfileReq) (*domain.Guest, error)
}

type guestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) GuestRepository {
	return &guestRepository{pool: pool}
}

const guestCols = `id, email, full_name, nationality, country_flag, national_id, created_at`

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(&g.ID, &g.Email, &g.FullName, &g.Nationality, &g.CountryFlag, &g.NationalID, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *guestRepository) Create(ctx context.Context, email, fullName string) (*domain.Guest, error) {
	const q = `INSERT INTO guests (email, full_name, nationality, country_flag, national_id)
		VALUES ($1, $2, '', '', '')
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanGuest(r.pool.QueryRow(ctx, q, email, fullName))
}

func (r *guestRepository) FindByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guestRepository) FindByID(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guests WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guestRepository) UpdateProfile(ctx context.Context, id int64, req *domain.UpdateProfileReq) (*domain.Guest, error) {
	const q = `UPDATE guests
		SET nationality=$2, country_flag=$3, national_id=$4
		WHERE id=$1
		RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, err := scanGuest(r.pool.QueryRow(ctx, q, id, req.Nationality, req.CountryFlag, req.NationalID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}
