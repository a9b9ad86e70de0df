package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NoExpiry makes IssueToken omit the expiry claim entirely.
//
// Registration hands out tokens bounded by the configured TTL while sign-in
// hands out unbounded ones. The asymmetry is deliberate product behavior,
// preserved as-is; it is flagged for product confirmation rather than
// silently unified.
const NoExpiry time.Duration = 0

// TokenIssuer defines operations for creating and checking signed bearer
// tokens carrying account identity claims.
type TokenIssuer interface {
	// IssueToken creates a signed token binding the account's ID and email.
	// A positive ttl embeds an expiry claim; NoExpiry omits it.
	// Returns ErrSigningFailed if signing fails.
	IssueToken(ctx context.Context, userID uuid.UUID, email string, ttl time.Duration) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the identity payload embedded in an issued token.
type Claims struct {
	// UserID is the unique identifier of the account the token was issued for.
	UserID uuid.UUID `json:"userId"`

	// Email is the account's email address at issue time.
	Email string `json:"email"`

	// Standard registered JWT claims
	Subject  string    `json:"sub,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`

	// ExpiresAt is nil for tokens issued without an expiry.
	ExpiresAt *time.Time `json:"exp,omitempty"`

	ID string `json:"jti,omitempty"`
}
