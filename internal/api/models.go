package api

import (
	"github.com/google/uuid"

	"github.com/New-Magic-Tech/interlude-backend/internal/service"
)

// Common request/response structures

// SignupRequest defines the payload for the user registration endpoint.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// SigninRequest defines the payload for the user sign-in endpoint.
type SigninRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// FieldMutationRequest defines the payload for the document update and
// append endpoints. Field is the caller-supplied field name; Info is an
// arbitrary JSON value.
type FieldMutationRequest struct {
	Field string `json:"field" validate:"required"`
	Info  any    `json:"info"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Walls    []any     `json:"walls"`
	Token    string    `json:"token"`
}

// DocumentResponse wraps a user document snapshot.
type DocumentResponse struct {
	UserDoc map[string]any `json:"userDoc"`
}

// ValidationFailedResponse carries the structured validation issues back to
// the caller, the one failure shape that echoes caller-supplied detail.
type ValidationFailedResponse struct {
	Error  string                    `json:"error"`
	Errors []service.ValidationIssue `json:"errors"`
}
