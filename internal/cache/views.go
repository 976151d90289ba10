package cache

import "fmt"

// View identifies a cached rendered view. Mutations invalidate views by
// identifier; the next render of an affected view reloads from the store.
type View string

func GuestProfileView(guestID int64) View {
	return View(fmt.Sprintf("account:profile:%d", guestID))
}

func ReservationsView(guestID int64) View {
	return View(fmt.Sprintf("account:reservations:%d", guestID))
}

// ReservationEditView is keyed by guest as well as booking so a cached
// render can never be served to a guest who does not own the booking.
func ReservationEditView(guestID, bookingID int64) View {
	return View(fmt.Sprintf("account:reservations:edit:%d:%d", guestID, bookingID))
}

func CabinView(cabinID int64) View {
	return View(fmt.Sprintf("cabins:%d", cabinID))
}

func CabinsIndexView(filter string) View {
	return View("cabins:index:" + filter)
}

// Mutation kinds with a declared invalidation set.
type Mutation int

const (
	MutationProfileUpdate Mutation = iota
	MutationBookingCreate
	MutationBookingUpdate
	MutationBookingDelete
)

// Target carries the entity ids a mutation touched.
type Target struct {
	GuestID   int64
	CabinID   int64
	BookingID int64
}

// ViewsFor maps a mutation kind to the views that must be marked stale.
func ViewsFor(m Mutation, t Target) []View {
	switch m {
	case MutationProfileUpdate:
		return []View{GuestProfileView(t.GuestID)}
	case MutationBookingCreate:
		return []View{CabinView(t.CabinID)}
	case MutationBookingUpdate:
		return []View{ReservationsView(t.GuestID), ReservationEditView(t.GuestID, t.BookingID)}
	case MutationBookingDelete:
		return []View{ReservationsView(t.GuestID)}
	default:
		return nil
	}
}
