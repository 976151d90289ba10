package domain_test

import (
	"testing"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

func TestParseCapacityFilter(t *testing.T) {
	if f, ok := domain.ParseCapacityFilter(""); !ok || f != domain.CapacityAll {
		t.Errorf("empty filter should mean all, got %q ok=%v", f, ok)
	}
	for _, valid := range []string{"all", "small", "medium", "large"} {
		if _, ok := domain.ParseCapacityFilter(valid); !ok {
			t.Errorf("ParseCapacityFilter(%q) should succeed", valid)
		}
	}
	if _, ok := domain.ParseCapacityFilter("huge"); ok {
		t.Error("unknown filter should fail")
	}
}

func TestCapacityFilterMatches(t *testing.T) {
	tests := []struct {
		filter   domain.CapacityFilter
		capacity int
		want     bool
	}{
		{domain.CapacitySmall, 1, true},
		{domain.CapacitySmall, 2, true},
		{domain.CapacitySmall, 3, false},
		{domain.CapacityMedium, 2, false},
		{domain.CapacityMedium, 3, true},
		{domain.CapacityMedium, 7, true},
		{domain.CapacityMedium, 8, false},
		{domain.CapacityLarge, 7, false},
		{domain.CapacityLarge, 8, true},
		{domain.CapacityLarge, 12, true},
		{domain.CapacityAll, 1, true},
		{domain.CapacityAll, 12, true},
	}

	for _, tt := range tests {
		if got := tt.filter.Matches(tt.capacity); got != tt.want {
			t.Errorf("%s.Matches(%d) = %v, want %v", tt.filter, tt.capacity, got, tt.want)
		}
	}
}
