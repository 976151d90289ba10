package domain_test

import (
	"strings"
	"testing"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

func TestClampObservations(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
	}{
		{"empty", "", 0},
		{"short text untouched", "arriving after 8pm", 18},
		{"exactly at the cap", strings.Repeat("a", 1000), 1000},
		{"one over the cap", strings.Repeat("a", 1001), 1000},
		{"far over the cap", strings.Repeat("a", 5000), 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ClampObservations(tt.in)
			if len([]rune(got)) != tt.wantLen {
				t.Errorf("len = %d, want %d", len([]rune(got)), tt.wantLen)
			}
		})
	}

	t.Run("counts runes not bytes", func(t *testing.T) {
		in := strings.Repeat("é", 1200)
		got := domain.ClampObservations(in)
		if n := len([]rune(got)); n != 1000 {
			t.Errorf("rune length = %d, want 1000", n)
		}
		if !strings.HasPrefix(in, got) {
			t.Error("clamped text must be a prefix of the input")
		}
	})
}

func TestParseBookingStatus(t *testing.T) {
	for _, valid := range []string{"unconfirmed", "confirmed", "checked-in", "checked-out"} {
		if _, ok := domain.ParseBookingStatus(valid); !ok {
			t.Errorf("ParseBookingStatus(%q) should succeed", valid)
		}
	}
	for _, invalid := range []string{"", "pending", "cancelled", "Confirmed"} {
		if _, ok := domain.ParseBookingStatus(invalid); ok {
			t.Errorf("ParseBookingStatus(%q) should fail", invalid)
		}
	}
}
