package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/wildoasis/cabin-bookings/internal/domain"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeStoreFailed   = "STORE_OPERATION_FAILED"
	CodeInternalError = "INTERNAL_ERROR"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
)

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// FromError maps a domain error onto an HTTP status and stable code.
func FromError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, err.Error(), CodeUnauthorized)
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error(), CodeForbidden)
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), CodeNotFound)
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Error(), CodeInvalidInput)
	case errors.Is(err, domain.ErrBookingCreateFailed),
		errors.Is(err, domain.ErrBookingUpdateFailed),
		errors.Is(err, domain.ErrBookingDeleteFailed),
		errors.Is(err, domain.ErrGuestUpdateFailed):
		WriteError(w, http.StatusInternalServerError, err.Error(), CodeStoreFailed)
	default:
		WriteError(w, http.StatusInternalServerError, "something went wrong", CodeInternalError)
	}
}

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}
