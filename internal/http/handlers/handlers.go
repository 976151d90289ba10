package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wildoasis/cabin-bookings/internal/cache"
	mw "github.com/wildoasis/cabin-bookings/internal/http/middleware"
	"github.com/wildoasis/cabin-bookings/internal/http/response"
	"github.com/wildoasis/cabin-bookings/internal/service"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
)

// ViewStore is the read-through cache the handlers render into.
type ViewStore interface {
	Get(ctx context.Context, v cache.View) ([]byte, bool)
	Set(ctx context.Context, v cache.View, body []byte)
}

type Handlers struct {
	bookings service.BookingService
	guests   service.GuestService
	auth     service.AuthService
	cabins   service.CabinService
	views    ViewStore
	secret   string
	limiter  *mw.RateLimiter
}

func New(
	bookings service.BookingService,
	guests service.GuestService,
	authSvc service.AuthService,
	cabins service.CabinService,
	views ViewStore,
	secret string,
	limiter *mw.RateLimiter,
) *Handlers {
	return &Handlers{
		bookings: bookings,
		guests:   guests,
		auth:     authSvc,
		cabins:   cabins,
		views:    views,
		secret:   secret,
		limiter:  limiter,
	}
}

func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", h.SignIn)
		r.Post("/signout", h.SignOut)
		if h.limiter != nil {
			r.With(h.limiter.Middleware()).Post("/access/request", h.RequestAccess)
		} else {
			r.Post("/access/request", h.RequestAccess)
		}
		r.Post("/access/verify", h.VerifyAccessCode)
		r.Get("/access/magic", h.VerifyMagicLink)
	})

	r.Route("/cabins", func(r chi.Router) {
		r.Get("/", h.ListCabins)
		r.Get("/{id}", h.GetCabinDetail)
	})

	r.Route("/account", func(r chi.Router) {
		r.Use(mw.RequireSession(h.secret))
		r.Get("/profile", h.GetProfile)
		r.Patch("/profile", h.UpdateProfile)
		r.Get("/reservations", h.ListReservations)
	})

	// Booking mutations decide authentication themselves so anonymous
	// callers get the operation's own denial, not a transport-level one.
	r.Route("/bookings", func(r chi.Router) {
		r.Use(mw.OptionalSession(h.secret))
		r.Post("/", h.CreateBooking)
		r.Get("/{id}", h.GetBooking)
		r.Patch("/{id}", h.UpdateBooking)
		r.Delete("/{id}", h.DeleteBooking)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// cached serves a rendered view from the cache or renders and stores it.
func (h *Handlers) cached(w http.ResponseWriter, r *http.Request, view cache.View, render func() (interface{}, error)) {
	if h.views != nil {
		if body, ok := h.views.Get(r.Context(), view); ok {
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	v, err := render()
	if err != nil {
		response.FromError(w, err)
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to render view", "view", view, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if h.views != nil {
		h.views.Set(r.Context(), view, body)
	}
	writeRaw(w, http.StatusOK, body)
}
