package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wildoasis/cabin-bookings/internal/cache"
	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/repo/postgres"
	"github.com/wildoasis/cabin-bookings/pkg/events"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
)

type GuestService interface {
	GetProfile(ctx context.Context, sess *domain.Session) (*domain.Guest, error)
	UpdateProfile(ctx context.Context, sess *domain.Session, req *domain.UpdateProfileReq) (*domain.Guest, error)
}

type guestService struct {
	guests      postgres.GuestRepository
	invalidator cache.Invalidator
	bus         events.Publisher
}

func NewGuestService(guests postgres.GuestRepository, invalidator cache.Invalidator, bus events.Publisher) GuestService {
	return &guestService{guests: guests, invalidator: invalidator, bus: bus}
}

func (s *guestService) GetProfile(ctx context.Context, sess *domain.Session) (*domain.Guest, error) {
	if sess == nil || sess.GuestID <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	guest, err := s.guests.FindByID(ctx, sess.GuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guest: %w", err)
	}
	if guest == nil {
		return nil, domain.ErrNotFound
	}
	return guest, nil
}

// UpdateProfile changes the profile fields of the session's own guest row.
// Validation runs before any store write; a malformed national ID never
// reaches the database.
func (s *guestService) UpdateProfile(ctx context.Context, sess *domain.Session, req *domain.UpdateProfileReq) (*domain.Guest, error) {
	if sess == nil || sess.GuestID <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.guests.UpdateProfile(ctx, sess.GuestID, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGuestUpdateFailed, err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	s.invalidator.Invalidate(ctx, cache.ViewsFor(cache.MutationProfileUpdate, cache.Target{GuestID: sess.GuestID})...)

	if s.bus != nil {
		ev := events.GuestProfileUpdatedEvent{GuestID: sess.GuestID, UpdatedAt: time.Now()}
		if err := s.bus.Publish(ctx, events.GuestProfileUpdated, ev); err != nil {
			logger.ErrorContext(ctx, "Failed to publish profile updated event", "error", err, "guest_id", sess.GuestID)
		}
	}

	return updated, nil
}
