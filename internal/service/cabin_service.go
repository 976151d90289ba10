package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/repo/postgres"
)

type CabinService interface {
	ListCabins(ctx context.Context, filter domain.CapacityFilter) ([]domain.Cabin, error)
	CabinDetail(ctx context.Context, cabinID int64) (*CabinDetail, error)
}

// CabinDetail is everything the reservation form needs for one cabin.
type CabinDetail struct {
	Cabin        *domain.Cabin      `json:"cabin"`
	Settings     *domain.Settings   `json:"settings"`
	BookedRanges []domain.DateRange `json:"booked_ranges"`
}

type cabinService struct {
	cabins   postgres.CabinRepository
	bookings postgres.BookingRepository
}

func NewCabinService(cabins postgres.CabinRepository, bookings postgres.BookingRepository) CabinService {
	return &cabinService{cabins: cabins, bookings: bookings}
}

func (s *cabinService) ListCabins(ctx context.Context, filter domain.CapacityFilter) ([]domain.Cabin, error) {
	return s.cabins.List(ctx, filter)
}

// CabinDetail loads the cabin, then fetches settings and the booked calendar
// concurrently; the two reads have no data dependency.
func (s *cabinService) CabinDetail(ctx context.Context, cabinID int64) (*CabinDetail, error) {
	cabin, err := s.cabins.GetByID(ctx, cabinID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cabin: %w", err)
	}
	if cabin == nil {
		return nil, domain.ErrNotFound
	}

	detail := &CabinDetail{Cabin: cabin}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		settings, err := s.cabins.GetSettings(gctx)
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		detail.Settings = settings
		return nil
	})
	g.Go(func() error {
		ranges, err := s.bookings.BookedRangesByCabin(gctx, cabinID)
		if err != nil {
			return fmt.Errorf("failed to get booked dates: %w", err)
		}
		detail.BookedRanges = ranges
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}
