package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	// Minimum cost keeps the suite fast; the cost is an input, not the
	// behavior under test.
	hasher := NewBcryptHasher(bcrypt.MinCost)

	t.Run("hash then compare round-trips", func(t *testing.T) {
		t.Parallel()
		digest, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, digest)
		assert.NotEqual(t, "correct horse battery staple", digest)

		assert.NoError(t, hasher.Compare(digest, "correct horse battery staple"))
	})

	t.Run("mismatch is the bcrypt sentinel", func(t *testing.T) {
		t.Parallel()
		digest, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		err = hasher.Compare(digest, "wrong password")
		assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
	})

	t.Run("malformed digest is not a mismatch", func(t *testing.T) {
		t.Parallel()
		err := hasher.Compare("not-a-bcrypt-digest", "anything")
		require.Error(t, err)
		assert.NotErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		t.Parallel()
		first, err := hasher.Hash("same password")
		require.NoError(t, err)
		second, err := hasher.Hash("same password")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestNewBcryptHasherCost(t *testing.T) {
	t.Parallel()

	t.Run("uses configured cost", func(t *testing.T) {
		t.Parallel()
		hasher := NewBcryptHasher(bcrypt.MinCost)
		digest, err := hasher.Hash("password")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(digest))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("out-of-range cost falls back to default", func(t *testing.T) {
		t.Parallel()
		hasher := NewBcryptHasher(0)
		assert.Equal(t, DefaultBcryptCost, hasher.cost)

		hasher = NewBcryptHasher(99)
		assert.Equal(t, DefaultBcryptCost, hasher.cost)
	})
}
