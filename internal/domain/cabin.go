package domain

type Cabin struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	MaxCapacity  int     `json:"max_capacity"`
	RegularPrice float64 `json:"regular_price"`
	Discount     float64 `json:"discount"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
}

// Settings are site-wide booking constraints, read-only for this service.
type Settings struct {
	MinBookingLength    int     `json:"min_booking_length"`
	MaxBookingLength    int     `json:"max_booking_length"`
	MaxGuestsPerBooking int     `json:"max_guests_per_booking"`
	BreakfastPrice      float64 `json:"breakfast_price"`
}

type CapacityFilter string

const (
	CapacityAll    CapacityFilter = "all"
	CapacitySmall  CapacityFilter = "small"  // up to 2 guests
	CapacityMedium CapacityFilter = "medium" // 3 to 7 guests
	CapacityLarge  CapacityFilter = "large"  // 8 or more guests
)

func ParseCapacityFilter(s string) (CapacityFilter, bool) {
	if s == "" {
		return CapacityAll, true
	}
	switch CapacityFilter(s) {
	case CapacityAll, CapacitySmall, CapacityMedium, CapacityLarge:
		return CapacityFilter(s), true
	default:
		return "", false
	}
}

func (f CapacityFilter) Matches(maxCapacity int) bool {
	switch f {
	case CapacitySmall:
		return maxCapacity <= 2
	case CapacityMedium:
		return maxCapacity >= 3 && maxCapacity <= 7
	case CapacityLarge:
		return maxCapacity >= 8
	default:
		return true
	}
}
