package notify

import (
	"encoding/json"

	"github.com/wildoasis/cabin-bookings/internal/platform/mailer"
	"github.com/wildoasis/cabin-bookings/pkg/events"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
)

// Notifier turns booking events into guest-facing email.
type Notifier struct {
	bus    events.Subscriber
	mailer mailer.Service
}

func New(bus events.Subscriber, mailSvc mailer.Service) *Notifier {
	return &Notifier{bus: bus, mailer: mailSvc}
}

func (n *Notifier) Start() error {
	return n.bus.QueueSubscribe(events.BookingCreated, "notify", func(msg *events.Message) {
		var ev events.BookingCreatedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("Failed to decode booking created event", "error", err)
			return
		}

		if ev.GuestEmail == "" {
			return
		}

		if err := n.mailer.SendBookingConfirmation(ev); err != nil {
			logger.Error("Failed to send booking confirmation", "error", err, "booking_id", ev.BookingID)
		}
	})
}
