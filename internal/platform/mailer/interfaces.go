package mailer

import "github.com/wildoasis/cabin-bookings/pkg/events"

// Service sends guest-facing email.
type Service interface {
	SendAccessCode(email, code, magicLink string) error
	SendBookingConfirmation(ev events.BookingCreatedEvent) error
}
