package ui

import (
	"context"
	"slices"
	"sync"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

// DeleteFunc runs the server-side deletion for one booking.
type DeleteFunc func(ctx context.Context, bookingID int64) error

// ReservationList is the client-local view of a guest's bookings: the last
// server-confirmed state plus an overlay of pending deletions keyed by
// booking id. The overlay is a display affordance, never committed truth —
// the store stays authoritative and every Reset from a server read wins.
type ReservationList struct {
	mu        sync.Mutex
	confirmed []domain.Booking
	pending   map[int64]struct{}
}

func NewReservationList(bookings []domain.Booking) *ReservationList {
	l := &ReservationList{pending: make(map[int64]struct{})}
	l.Reset(bookings)
	return l
}

// Reset replaces the list with a fresh authoritative read and drops the
// overlay: whatever the server says now is what the guest sees.
func (l *ReservationList) Reset(bookings []domain.Booking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = slices.Clone(bookings)
	l.pending = make(map[int64]struct{})
}

// Visible returns the bookings to display: confirmed state minus pending
// deletions.
func (l *ReservationList) Visible() []domain.Booking {
	l.mu.Lock()
	defer l.mu.Unlock()

	visible := make([]domain.Booking, 0, len(l.confirmed))
	for _, b := range l.confirmed {
		if _, hidden := l.pending[b.ID]; !hidden {
			visible = append(visible, b)
		}
	}
	return visible
}

// Delete hides the booking immediately, then runs the server deletion. On
// success the removal is committed so a later stale completion cannot
// resurrect it. On failure the overlay entry is dropped — the booking
// reappears, matching the next authoritative read — and the error is
// returned for the UI to surface. Deletions of different bookings compose
// independently; the per-id keying means none of them interact.
func (l *ReservationList) Delete(ctx context.Context, bookingID int64, del DeleteFunc) error {
	l.mu.Lock()
	l.pending[bookingID] = struct{}{}
	l.mu.Unlock()

	err := del(ctx, bookingID)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, bookingID)
	if err != nil {
		return err
	}

	l.confirmed = slices.DeleteFunc(l.confirmed, func(b domain.Booking) bool {
		return b.ID == bookingID
	})
	return nil
}
