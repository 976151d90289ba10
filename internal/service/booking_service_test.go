package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/wildoasis/cabin-bookings/internal/cache"
	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/service"
	"github.com/wildoasis/cabin-bookings/pkg/metrics"
)

// ---------- Mocks ----------

type mockBookingRepo struct {
	nextID   int64
	bookings map[int64]*domain.Booking

	createErr error
	updateErr error
	deleteErr error
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		nextID:   1,
		bookings: make(map[int64]*domain.Booking),
	}
}

func (m *mockBookingRepo) seed(b domain.Booking) {
	if b.ID >= m.nextID {
		m.nextID = b.ID + 1
	}
	m.bookings[b.ID] = &b
}

func (m *mockBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *b
	created.ID = m.nextID
	m.nextID++
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.bookings[created.ID] = &created
	return &created, nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) ListByGuest(_ context.Context, guestID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) ListIDsByGuest(_ context.Context, guestID int64) ([]int64, error) {
	var ids []int64
	for id, b := range m.bookings {
		if b.GuestID == guestID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockBookingRepo) BookedRangesByCabin(_ context.Context, cabinID int64) ([]domain.DateRange, error) {
	var ranges []domain.DateRange
	for _, b := range m.bookings {
		if b.CabinID == cabinID {
			ranges = append(ranges, domain.DateRange{Start: b.StartDate, End: b.EndDate})
		}
	}
	return ranges, nil
}

func (m *mockBookingRepo) Update(_ context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	if patch.NumGuests != nil {
		b.NumGuests = *patch.NumGuests
	}
	if patch.Observations != nil {
		b.Observations = *patch.Observations
	}
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id int64) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	if _, ok := m.bookings[id]; !ok {
		return false, nil
	}
	delete(m.bookings, id)
	return true, nil
}

type mockInvalidator struct {
	invalidated []cache.View
}

func (m *mockInvalidator) Invalidate(_ context.Context, views ...cache.View) {
	m.invalidated = append(m.invalidated, views...)
}

func (m *mockInvalidator) has(v cache.View) bool {
	for _, got := range m.invalidated {
		if got == v {
			return true
		}
	}
	return false
}

// ---------- Helpers ----------

func newBookingService(repo *mockBookingRepo, inv *mockInvalidator) service.BookingService {
	guard := service.NewAuthGuard(repo)
	return service.NewBookingService(repo, guard, inv, nil, nil)
}

func validCreateReq() *domain.BookingCreateReq {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return &domain.BookingCreateReq{
		CabinID:    7,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 4),
		NumGuests:  2,
		CabinPrice: 900,
	}
}

func sessionFor(guestID int64) *domain.Session {
	return &domain.Session{GuestID: guestID, Email: "guest@example.com", Name: "Test Guest"}
}

// ---------- Tests ----------

func TestCreateBooking(t *testing.T) {
	t.Run("anonymous caller cannot create", func(t *testing.T) {
		repo := newMockBookingRepo()
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		_, err := svc.Create(context.Background(), nil, validCreateReq())
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
		if len(repo.bookings) != 0 {
			t.Error("nothing should be inserted for an anonymous caller")
		}
		if len(inv.invalidated) != 0 {
			t.Error("no views should be invalidated")
		}
	})

	t.Run("success sets server-owned defaults", func(t *testing.T) {
		repo := newMockBookingRepo()
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		result, err := svc.Create(context.Background(), sessionFor(42), validCreateReq())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		b := result.Booking
		if b.GuestID != 42 {
			t.Errorf("guest id = %d, want 42", b.GuestID)
		}
		if b.Status != domain.BookingUnconfirmed {
			t.Errorf("status = %q, want unconfirmed", b.Status)
		}
		if b.IsPaid || b.HasBreakfast {
			t.Error("new bookings must start unpaid and without breakfast")
		}
		if b.ExtraPrice != 0 {
			t.Errorf("extra price = %v, want 0", b.ExtraPrice)
		}
		if b.TotalPrice != b.CabinPrice {
			t.Errorf("total price = %v, want cabin price %v", b.TotalPrice, b.CabinPrice)
		}
		if result.RedirectTo != service.RedirectThankYou {
			t.Errorf("redirect = %q, want %q", result.RedirectTo, service.RedirectThankYou)
		}
		if !inv.has(cache.CabinView(7)) {
			t.Errorf("cabin view should be invalidated, got %v", inv.invalidated)
		}
	})

	t.Run("end date must follow start date", func(t *testing.T) {
		repo := newMockBookingRepo()
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		req := validCreateReq()
		req.EndDate = req.StartDate
		_, err := svc.Create(context.Background(), sessionFor(42), req)
		if !domain.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(repo.bookings) != 0 {
			t.Error("invalid input must not reach the store")
		}
	})

	t.Run("observations over the cap are silently truncated", func(t *testing.T) {
		repo := newMockBookingRepo()
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		req := validCreateReq()
		req.Observations = strings.Repeat("x", domain.MaxObservationsLen+250)
		result, err := svc.Create(context.Background(), sessionFor(42), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := len(result.Booking.Observations); got != domain.MaxObservationsLen {
			t.Errorf("observations length = %d, want %d", got, domain.MaxObservationsLen)
		}
	})

	t.Run("store failure yields the stable message and no invalidation", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.createErr = errors.New("connection reset")
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		_, err := svc.Create(context.Background(), sessionFor(42), validCreateReq())
		if !errors.Is(err, domain.ErrBookingCreateFailed) {
			t.Fatalf("expected ErrBookingCreateFailed, got %v", err)
		}
		if len(inv.invalidated) != 0 {
			t.Error("a failed insert must not invalidate any views")
		}
	})
}

func TestBookingMetrics(t *testing.T) {
	m := metrics.NewMetrics("wildoasis_test")
	repo := newMockBookingRepo()
	guard := service.NewAuthGuard(repo)
	svc := service.NewBookingService(repo, guard, &mockInvalidator{}, nil, m)

	result, err := svc.Create(context.Background(), sessionFor(42), validCreateReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), sessionFor(42), result.Booking.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := testutil.ToFloat64(m.BookingsCreated); got != 1 {
		t.Errorf("bookings created = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.BookingsDeleted); got != 1 {
		t.Errorf("bookings deleted = %v, want 1", got)
	}

	pb := &dto.Metric{}
	if err := m.MutationDuration.Write(pb); err != nil {
		t.Fatalf("failed to read histogram: %v", err)
	}
	if got := pb.Histogram.GetSampleCount(); got != 2 {
		t.Errorf("mutation duration samples = %d, want 2", got)
	}
}

func TestUpdateBooking(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	owned := domain.Booking{
		ID: 10, GuestID: 42, CabinID: 7,
		StartDate: start, EndDate: start.AddDate(0, 0, 3),
		NumGuests: 2, Status: domain.BookingUnconfirmed,
	}

	t.Run("owner can update editable fields", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.seed(owned)
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		guests := 4
		obs := "late arrival"
		result, err := svc.Update(context.Background(), sessionFor(42), 10, domain.BookingPatch{
			NumGuests:    &guests,
			Observations: &obs,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Booking.NumGuests != 4 || result.Booking.Observations != "late arrival" {
			t.Errorf("patch not applied: %+v", result.Booking)
		}
		if result.RedirectTo != service.RedirectReservations {
			t.Errorf("redirect = %q, want %q", result.RedirectTo, service.RedirectReservations)
		}
		if !inv.has(cache.ReservationsView(42)) || !inv.has(cache.ReservationEditView(42, 10)) {
			t.Errorf("reservations list and edit views should be invalidated, got %v", inv.invalidated)
		}
	})

	t.Run("another guest's booking is forbidden and untouched", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.seed(owned)
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		guests := 9
		_, err := svc.Update(context.Background(), sessionFor(99), 10, domain.BookingPatch{NumGuests: &guests})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if repo.bookings[10].NumGuests != 2 {
			t.Error("forbidden update must leave the store unchanged")
		}
		if len(inv.invalidated) != 0 {
			t.Error("forbidden update must not invalidate any views")
		}
	})

	t.Run("anonymous caller is unauthenticated", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.seed(owned)
		svc := newBookingService(repo, &mockInvalidator{})

		guests := 3
		_, err := svc.Update(context.Background(), nil, 10, domain.BookingPatch{NumGuests: &guests})
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("zero guests is rejected before the store", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.seed(owned)
		svc := newBookingService(repo, &mockInvalidator{})

		guests := 0
		_, err := svc.Update(context.Background(), sessionFor(42), 10, domain.BookingPatch{NumGuests: &guests})
		if !domain.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if repo.bookings[10].NumGuests != 2 {
			t.Error("invalid patch must leave the store unchanged")
		}
	})
}

func TestDeleteBooking(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	owned := domain.Booking{
		ID: 10, GuestID: 42, CabinID: 7,
		StartDate: start, EndDate: start.AddDate(0, 0, 3),
		NumGuests: 2, Status: domain.BookingUnconfirmed,
	}

	t.Run("owner delete removes the row and invalidates the list", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.seed(owned)
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		if err := svc.Delete(context.Background(), sessionFor(42), 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := repo.bookings[10]; ok {
			t.Error("booking should be gone")
		}
		if !inv.has(cache.ReservationsView(42)) {
			t.Errorf("reservations view should be invalidated, got %v", inv.invalidated)
		}
	})

	t.Run("deleting the same booking twice denies the second attempt", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.seed(owned)
		svc := newBookingService(repo, &mockInvalidator{})

		if err := svc.Delete(context.Background(), sessionFor(42), 10); err != nil {
			t.Fatalf("first delete: %v", err)
		}
		err := svc.Delete(context.Background(), sessionFor(42), 10)
		if !errors.Is(err, domain.ErrForbidden) && !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("second delete should be denied, got %v", err)
		}
	})

	t.Run("store failure propagates so the client can reconcile", func(t *testing.T) {
		repo := newMockBookingRepo()
		repo.seed(owned)
		repo.deleteErr = errors.New("connection reset")
		inv := &mockInvalidator{}
		svc := newBookingService(repo, inv)

		err := svc.Delete(context.Background(), sessionFor(42), 10)
		if !errors.Is(err, domain.ErrBookingDeleteFailed) {
			t.Fatalf("expected ErrBookingDeleteFailed, got %v", err)
		}
		if len(inv.invalidated) != 0 {
			t.Error("a failed delete must not invalidate any views")
		}
	})
}
