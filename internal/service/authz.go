package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

// BookingIDLister is the single read the guard needs.
type BookingIDLister interface {
	ListIDsByGuest(ctx context.Context, guestID int64) ([]int64, error)
}

// AuthGuard decides whether a session may touch a booking. Pure
// read-then-decide; no side effects.
type AuthGuard struct {
	bookings BookingIDLister
}

func NewAuthGuard(bookings BookingIDLister) *AuthGuard {
	return &AuthGuard{bookings: bookings}
}

// Authorize confirms the session's guest owns bookingID. A guest with zero
// bookings is denied for every id; ownership is never assumed.
func (g *AuthGuard) Authorize(ctx context.Context, sess *domain.Session, bookingID int64) error {
	if sess == nil || sess.GuestID <= 0 {
		return domain.ErrUnauthenticated
	}

	ids, err := g.bookings.ListIDsByGuest(ctx, sess.GuestID)
	if err != nil {
		return fmt.Errorf("failed to load guest bookings: %w", err)
	}

	if !slices.Contains(ids, bookingID) {
		return domain.ErrForbidden
	}
	return nil
}
