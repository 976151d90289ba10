package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

type Claims struct {
	GuestID int64  `json:"guest_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// NewSessionToken issues a signed session token for a resolved guest.
func NewSessionToken(guest *domain.Guest, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		GuestID: guest.ID,
		Email:   guest.Email,
		Name:    guest.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Audience:  []string{"wildoasis-api"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSession validates a token and returns the session it carries.
func ParseSession(tokenString, secret string) (*domain.Session, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return &domain.Session{
		GuestID: claims.GuestID,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
