package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

// CabinRepository is read-only: cabins and settings are managed elsewhere.
type CabinRepository interface {
	List(ctx context.Context, filter domain.CapacityFilter) ([]domain.Cabin, error)
	GetByID(ctx context.Context, id int64) (*domain.Cabin, error)
	GetSettings(ctx context.Context) (*domain.Settings, error)
}

type cabinRepository struct {
	pool *pgxpool.Pool
}

func NewCabinRepository(pool *pgxpool.Pool) CabinRepository {
	return &cabinRepository{pool: pool}
}

const cabinCols = `id, name, max_capacity, regular_price, discount, description, image`

func scanCabin(row pgx.Row) (*domain.Cabin, error) {
	var c domain.Cabin
	err := row.Scan(&c.ID, &c.Name, &c.MaxCapacity, &c.RegularPrice, &c.Discount, &c.Description, &c.Image)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cabinRepository) List(ctx context.Context, filter domain.CapacityFilter) ([]domain.Cabin, error) {
	const q = `SELECT ` + cabinCols + ` FROM cabins ORDER BY name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cabins []domain.Cabin
	for rows.Next() {
		c, err := scanCabin(rows)
		if err != nil {
			return nil, err
		}
		if filter.Matches(c.MaxCapacity) {
			cabins = append(cabins, *c)
		}
	}
	return cabins, rows.Err()
}

func (r *cabinRepository) GetByID(ctx context.Context, id int64) (*domain.Cabin, error) {
	const q = `SELECT ` + cabinCols + ` FROM cabins WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCabin(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *cabinRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	const q = `SELECT min_booking_length, max_booking_length, max_guests_per_booking, breakfast_price
		FROM settings LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Settings
	err := r.pool.QueryRow(ctx, q).Scan(
		&s.MinBookingLength, &s.MaxBookingLength, &s.MaxGuestsPerBooking, &s.BreakfastPrice,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
