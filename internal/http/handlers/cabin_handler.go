package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wildoasis/cabin-bookings/internal/cache"
	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/http/response"
)

func (h *Handlers) ListCabins(w http.ResponseWriter, r *http.Request) {
	filter, ok := domain.ParseCapacityFilter(r.URL.Query().Get("capacity"))
	if !ok {
		response.BadRequest(w, "capacity must be one of: all, small, medium, large")
		return
	}

	h.cached(w, r, cache.CabinsIndexView(string(filter)), func() (interface{}, error) {
		cabins, err := h.cabins.ListCabins(r.Context(), filter)
		if err != nil {
			return nil, err
		}
		if cabins == nil {
			cabins = []domain.Cabin{}
		}
		return cabins, nil
	})
}

func (h *Handlers) GetCabinDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid cabin id")
		return
	}

	h.cached(w, r, cache.CabinView(id), func() (interface{}, error) {
		return h.cabins.CabinDetail(r.Context(), id)
	})
}
