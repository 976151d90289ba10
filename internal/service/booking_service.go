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
	"github.com/wildoasis/cabin-bookings/pkg/metrics"
)

// Redirect targets handed back to the rendering layer after a mutation.
const (
	RedirectThankYou     = "/cabins/thankyou"
	RedirectReservations = "/account/reservations"
)

type BookingService interface {
	Create(ctx context.Context, sess *domain.Session, req *domain.BookingCreateReq) (*BookingResult, error)
	Update(ctx context.Context, sess *domain.Session, bookingID int64, patch domain.BookingPatch) (*BookingResult, error)
	Delete(ctx context.Context, sess *domain.Session, bookingID int64) error
	Get(ctx context.Context, sess *domain.Session, bookingID int64) (*domain.Booking, error)
	ListForGuest(ctx context.Context, sess *domain.Session) ([]domain.Booking, error)
}

// BookingResult is a successful mutation outcome plus where to send the
// caller next.
type BookingResult struct {
	Booking    *domain.Booking `json:"booking"`
	RedirectTo string          `json:"redirect_to"`
}

type bookingService struct {
	bookings    postgres.BookingRepository
	guard       *AuthGuard
	invalidator cache.Invalidator
	bus         events.Publisher
	metrics     *metrics.Metrics
}

func NewBookingService(
	bookings postgres.BookingRepository,
	guard *AuthGuard,
	invalidator cache.Invalidator,
	bus events.Publisher,
	m *metrics.Metrics,
) BookingService {
	return &bookingService{
		bookings:    bookings,
		guard:       guard,
		invalidator: invalidator,
		bus:         bus,
		metrics:     m,
	}
}

// Create persists a new reservation for the session's guest. Side effects
// run in order: store insert, cache invalidation, redirect. Nothing after
// the insert happens when the insert fails.
func (s *bookingService) Create(ctx context.Context, sess *domain.Session, req *domain.BookingCreateReq) (*BookingResult, error) {
	defer s.observeDuration(time.Now())

	if sess == nil || sess.GuestID <= 0 {
		return nil, domain.ErrUnauthenticated
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		GuestID:      sess.GuestID,
		CabinID:      req.CabinID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		NumGuests:    req.NumGuests,
		Observations: req.Observations,
		CabinPrice:   req.CabinPrice,
		ExtraPrice:   0,
		TotalPrice:   req.CabinPrice,
		IsPaid:       false,
		HasBreakfast: false,
		Status:       domain.BookingUnconfirmed,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		s.countError("booking_create")
		return nil, fmt.Errorf("%w: %v", domain.ErrBookingCreateFailed, err)
	}

	s.invalidator.Invalidate(ctx, cache.ViewsFor(cache.MutationBookingCreate, cache.Target{CabinID: created.CabinID})...)

	s.publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:  created.ID,
		GuestID:    created.GuestID,
		GuestEmail: sess.Email,
		GuestName:  sess.Name,
		CabinID:    created.CabinID,
		StartDate:  created.StartDate,
		EndDate:    created.EndDate,
		NumGuests:  created.NumGuests,
		TotalPrice: created.TotalPrice,
		CreatedAt:  created.CreatedAt,
	})

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}

	return &BookingResult{Booking: created, RedirectTo: RedirectThankYou}, nil
}

// Update mutates the guest-editable fields of an owned booking.
func (s *bookingService) Update(ctx context.Context, sess *domain.Session, bookingID int64, patch domain.BookingPatch) (*BookingResult, error) {
	defer s.observeDuration(time.Now())

	if err := s.guard.Authorize(ctx, sess, bookingID); err != nil {
		return nil, err
	}

	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.bookings.Update(ctx, bookingID, patch)
	if err != nil {
		s.countError("booking_update")
		return nil, fmt.Errorf("%w: %v", domain.ErrBookingUpdateFailed, err)
	}
	if updated == nil {
		// Authorized a moment ago but the row is gone: deleted concurrently.
		return nil, domain.ErrNotFound
	}

	s.invalidator.Invalidate(ctx, cache.ViewsFor(cache.MutationBookingUpdate, cache.Target{
		GuestID:   updated.GuestID,
		BookingID: updated.ID,
	})...)

	s.publish(ctx, events.BookingUpdated, events.BookingUpdatedEvent{
		BookingID: updated.ID,
		GuestID:   updated.GuestID,
		Changes:   patchChanges(patch),
		UpdatedAt: updated.UpdatedAt,
	})

	if s.metrics != nil {
		s.metrics.BookingsUpdated.Inc()
	}

	return &BookingResult{Booking: updated, RedirectTo: RedirectReservations}, nil
}

// Delete removes an owned booking. A failed delete propagates so the
// client-side optimistic list can reconcile against server truth.
func (s *bookingService) Delete(ctx context.Context, sess *domain.Session, bookingID int64) error {
	defer s.observeDuration(time.Now())

	if err := s.guard.Authorize(ctx, sess, bookingID); err != nil {
		return err
	}

	deleted, err := s.bookings.Delete(ctx, bookingID)
	if err != nil {
		s.countError("booking_delete")
		return fmt.Errorf("%w: %v", domain.ErrBookingDeleteFailed, err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.invalidator.Invalidate(ctx, cache.ViewsFor(cache.MutationBookingDelete, cache.Target{GuestID: sess.GuestID})...)

	s.publish(ctx, events.BookingDeleted, events.BookingDeletedEvent{
		BookingID: bookingID,
		GuestID:   sess.GuestID,
		DeletedAt: time.Now(),
	})

	if s.metrics != nil {
		s.metrics.BookingsDeleted.Inc()
	}

	return nil
}

func (s *bookingService) Get(ctx context.Context, sess *domain.Session, bookingID int64) (*domain.Booking, error) {
	if err := s.guard.Authorize(ctx, sess, bookingID); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

func (s *bookingService) ListForGuest(ctx context.Context, sess *domain.Session) ([]domain.Booking, error) {
	if sess == nil || sess.GuestID <= 0 {
		return nil, domain.ErrUnauthenticated
	}
	return s.bookings.ListByGuest(ctx, sess.GuestID)
}

// publish logs event-bus failures instead of failing the mutation.
func (s *bookingService) publish(ctx context.Context, subject string, ev interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, subject, ev); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}

func (s *bookingService) observeDuration(start time.Time) {
	if s.metrics != nil {
		s.metrics.MutationDuration.Observe(time.Since(start).Seconds())
	}
}

func (s *bookingService) countError(op string) {
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(op).Inc()
	}
}

func patchChanges(patch domain.BookingPatch) []string {
	var changes []string
	if patch.NumGuests != nil {
		changes = append(changes, "num_guests")
	}
	if patch.Observations != nil {
		changes = append(changes, "observations")
	}
	return changes
}
