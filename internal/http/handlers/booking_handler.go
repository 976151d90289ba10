package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wildoasis/cabin-bookings/internal/cache"
	"github.com/wildoasis/cabin-bookings/internal/domain"
	mw "github.com/wildoasis/cabin-bookings/internal/http/middleware"
	"github.com/wildoasis/cabin-bookings/internal/http/response"
)

func bookingID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	result, err := h.bookings.Create(r.Context(), mw.Session(r), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetBooking serves the reservation edit view for an owned booking.
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	sess := mw.Session(r)
	if sess == nil {
		response.Unauthorized(w, "session token is required")
		return
	}

	h.cached(w, r, cache.ReservationEditView(sess.GuestID, id), func() (interface{}, error) {
		return h.bookings.Get(r.Context(), sess, id)
	})
}

func (h *Handlers) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	var patch domain.BookingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	result, err := h.bookings.Update(r.Context(), mw.Session(r), id, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(r)
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	if err := h.bookings.Delete(r.Context(), mw.Session(r), id); err != nil {
		response.FromError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListReservations(w http.ResponseWriter, r *http.Request) {
	sess := mw.Session(r)

	h.cached(w, r, cache.ReservationsView(sess.GuestID), func() (interface{}, error) {
		bookings, err := h.bookings.ListForGuest(r.Context(), sess)
		if err != nil {
			return nil, err
		}
		if bookings == nil {
			bookings = []domain.Booking{}
		}
		return bookings, nil
	})
}
