package identity

import (
	"context"
	"fmt"

	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/repo/postgres"
	"github.com/wildoasis/cabin-bookings/internal/utils"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
)

// Resolver exchanges an external identity (a verified email plus display
// name from the OAuth provider) for an internal guest record, creating one
// lazily on first sign-in.
type Resolver struct {
	guests postgres.GuestRepository
}

func NewResolver(guests postgres.GuestRepository) *Resolver {
	return &Resolver{guests: guests}
}

func (r *Resolver) Resolve(ctx context.Context, email, fullName string) (*domain.Guest, error) {
	email = utils.NormalizeEmail(email)

	guest, err := r.guests.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up guest: %w", err)
	}
	if guest != nil {
		return guest, nil
	}

	guest, err = r.guests.Create(ctx, email, utils.NormalizeString(fullName))
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	logger.InfoContext(ctx, "Created guest on first sign-in", "guest_id", guest.ID)
	return guest, nil
}
