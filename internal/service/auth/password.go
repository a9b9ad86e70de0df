package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for password hashing when no
// explicit cost is configured. Raising it slows both hashing and
// verification; existing digests keep the cost they were created with.
const DefaultBcryptCost = 12

// PasswordHasher defines the interface for one-way password hashing and
// verification.
type PasswordHasher interface {
	// Hash computes a salted one-way digest of the plaintext password.
	// Returns ErrHashingFailed if the underlying primitive errors; never
	// returns partial output.
	Hash(password string) (string, error)

	// Compare compares a stored digest with its possible plaintext
	// equivalent. Returns nil on match, bcrypt.ErrMismatchedHashAndPassword
	// on a legitimate mismatch, and any other error only for malformed
	// digest input.
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given work factor.
// Costs outside bcrypt's supported range fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash implements the PasswordHasher interface using bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}
	return string(digest), nil
}

// Compare implements the PasswordHasher interface using bcrypt.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
