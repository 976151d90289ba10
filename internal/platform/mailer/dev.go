package mailer

import (
	"github.com/wildoasis/cabin-bookings/pkg/events"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
)

// DevMailer logs emails instead of sending them. Used when no provider key
// is configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (m *DevMailer) SendAccessCode(email, code, magicLink string) error {
	logger.Info("DEV MAIL: guest access code",
		"to", email,
		"code", code,
		"magic_link", magicLink,
	)
	return nil
}

func (m *DevMailer) SendBookingConfirmation(ev events.BookingCreatedEvent) error {
	logger.Info("DEV MAIL: booking confirmation",
		"to", ev.GuestEmail,
		"booking_id", ev.BookingID,
		"cabin_id", ev.CabinID,
		"start_date", ev.StartDate,
		"end_date", ev.EndDate,
	)
	return nil
}
