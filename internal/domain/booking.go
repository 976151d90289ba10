package domain

import "time"

type BookingStatus string

const (
	BookingUnconfirmed BookingStatus = "unconfirmed"
	BookingConfirmed   BookingStatus = "confirmed"
	BookingCheckedIn   BookingStatus = "checked-in"
	BookingCheckedOut  BookingStatus = "checked-out"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingUnconfirmed, BookingConfirmed, BookingCheckedIn, BookingCheckedOut:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// MaxObservationsLen caps the free-text observations field.
const MaxObservationsLen = 1000

// ClampObservations silently drops characters beyond MaxObservationsLen.
func ClampObservations(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxObservationsLen {
		return s
	}
	return string(runes[:MaxObservationsLen])
}

type Booking struct {
	ID      int64 `json:"id"`
	GuestID int64 `json:"guest_id"`
	CabinID int64 `json:"cabin_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	NumGuests    int    `json:"num_guests"`
	Observations string `json:"observations"`

	CabinPrice float64 `json:"cabin_price"`
	ExtraPrice float64 `json:"extra_price"`
	TotalPrice float64 `json:"total_price"`

	IsPaid       bool          `json:"is_paid"`
	HasBreakfast bool          `json:"has_breakfast"`
	Status       BookingStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingCreateReq is the form payload for making a reservation.
type BookingCreateReq struct {
	CabinID      int64     `json:"cabin_id" validate:"required,min=1"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	NumGuests    int       `json:"num_guests" validate:"required,min=1"`
	Observations string    `json:"observations"`
	CabinPrice   float64   `json:"cabin_price" validate:"min=0"`
}

func (r *BookingCreateReq) Normalize() {
	r.Observations = ClampObservations(r.Observations)
}

func (r *BookingCreateReq) Validate() error {
	return validateStruct(r)
}

// BookingPatch carries the guest-editable booking fields. Everything else is
// immutable through the guest path.
type BookingPatch struct {
	NumGuests    *int    `json:"num_guests" validate:"omitnil,min=1"`
	Observations *string `json:"observations"`
}

func (p *BookingPatch) Normalize() {
	if p.Observations != nil {
		clamped := ClampObservations(*p.Observations)
		p.Observations = &clamped
	}
}

func (p *BookingPatch) Validate() error {
	return validateStruct(p)
}

// DateRange is an occupied interval on a cabin's calendar.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
