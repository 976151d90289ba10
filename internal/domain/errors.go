package domain

import "errors"

// Every failure kind is terminal for the request that raised it; nothing in
// this service retries automatically.
var (
	ErrUnauthenticated = errors.New("you must be signed in")
	ErrForbidden       = errors.New("you can only modify your own bookings")
	ErrNotFound        = errors.New("not found")

	ErrBookingCreateFailed = errors.New("booking could not be created")
	ErrBookingUpdateFailed = errors.New("booking could not be updated")
	ErrBookingDeleteFailed = errors.New("booking could not be deleted")
	ErrGuestUpdateFailed   = errors.New("guest could not be updated")
)

// ValidationError reports malformed input. It is always raised before any
// store mutation is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
