package api

import (
	"errors"
	"net/http"

	"github.com/New-Magic-Tech/interlude-backend/internal/service"
	"github.com/New-Magic-Tech/interlude-backend/internal/service/auth"
)

// MapErrorToStatusCode maps service errors to HTTP status codes. Existing
// clients depend on the 422 conflict / 403 credentials / 404 not-found
// convention, so it must not change.
func MapErrorToStatusCode(err error) int {
	var validationErr *service.ValidationFailedError

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, service.ErrDuplicateAccount):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusForbidden

	case errors.Is(err, service.ErrAccountNotFound):
		return http.StatusNotFound

	case errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the user-facing message for an error. The
// service taxonomy already uses caller-safe wording, so those pass through;
// anything unrecognized collapses to a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrDuplicateAccount),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrRegistrationFailed),
		errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrUpdateFailed),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrFetchFailed):
		return err.Error()

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	default:
		return "An unexpected error occurred"
	}
}
