package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/http/response"
	"github.com/wildoasis/cabin-bookings/internal/platform/auth"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
)

type ctxKey string

const CtxSession ctxKey = "session"

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return r.URL.Query().Get("session_token")
}

func withSession(r *http.Request, sess *domain.Session) *http.Request {
	ctx := context.WithValue(r.Context(), CtxSession, sess)
	ctx = context.WithValue(ctx, logger.GuestIDKey, sess.GuestID)
	return r.WithContext(ctx)
}

// RequireSession rejects requests without a valid session token.
func RequireSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				response.Unauthorized(w, "session token is required")
				return
			}
			sess, err := auth.ParseSession(tok, secret)
			if err != nil {
				response.Unauthorized(w, "invalid session token")
				return
			}
			next.ServeHTTP(w, withSession(r, sess))
		})
	}
}

// OptionalSession attaches a session when a valid token is present and lets
// the operation decide whether one is required.
func OptionalSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerToken(r); tok != "" {
				if sess, err := auth.ParseSession(tok, secret); err == nil {
					r = withSession(r, sess)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Session returns the request's session, or nil for anonymous callers.
func Session(r *http.Request) *domain.Session {
	if v := r.Context().Value(CtxSession); v != nil {
		if s, ok := v.(*domain.Session); ok {
			return s
		}
	}
	return nil
}
