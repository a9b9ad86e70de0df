package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	t.Run("matches 23505", func(t *testing.T) {
		t.Parallel()
		err := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("matches wrapped error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("failed to insert user: %w", &pgconn.PgError{Code: "23505"})
		assert.True(t, isUniqueViolation(err))
	})

	t.Run("ignores other postgres codes", func(t *testing.T) {
		t.Parallel()
		assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	})

	t.Run("ignores non-postgres errors", func(t *testing.T) {
		t.Parallel()
		assert.False(t, isUniqueViolation(errors.New("connection refused")))
		assert.False(t, isUniqueViolation(nil))
	})
}
