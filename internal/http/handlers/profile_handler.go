package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wildoasis/cabin-bookings/internal/cache"
	"github.com/wildoasis/cabin-bookings/internal/domain"
	mw "github.com/wildoasis/cabin-bookings/internal/http/middleware"
	"github.com/wildoasis/cabin-bookings/internal/http/response"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess := mw.Session(r)

	h.cached(w, r, cache.GuestProfileView(sess.GuestID), func() (interface{}, error) {
		return h.guests.GetProfile(r.Context(), sess)
	})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	guest, err := h.guests.UpdateProfile(r.Context(), mw.Session(r), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, guest)
}
