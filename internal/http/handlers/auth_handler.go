package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/http/response"
)

type signInResponse struct {
	SessionToken string `json:"session_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RedirectTo   string `json:"redirect_to"`
}

// SignIn consumes the OAuth callback payload (email + display name) and
// returns a session token. Guests are created lazily on first sign-in.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	sess, err := h.auth.SignIn(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{
		SessionToken: sess.SessionToken,
		ExpiresIn:    sess.ExpiresIn,
		RedirectTo:   "/account",
	})
}

// SignOut is stateless on the server; the client drops its token.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"redirect_to": "/"})
}

type accessRequestBody struct {
	Email string `json:"email"`
}

func (h *Handlers) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var body accessRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.auth.RequestAccess(r.Context(), body.Email); err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "If that address exists, a sign-in code is on its way.",
	})
}

type accessVerifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handlers) VerifyAccessCode(w http.ResponseWriter, r *http.Request) {
	var body accessVerifyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	sess, err := h.auth.VerifyCode(r.Context(), body.Email, body.Code)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{
		SessionToken: sess.SessionToken,
		ExpiresIn:    sess.ExpiresIn,
		RedirectTo:   "/account",
	})
}

func (h *Handlers) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.BadRequest(w, "token is required")
		return
	}

	sess, err := h.auth.VerifyMagicLink(r.Context(), token)
	if err != nil {
		response.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{
		SessionToken: sess.SessionToken,
		ExpiresIn:    sess.ExpiresIn,
		RedirectTo:   "/account",
	})
}
