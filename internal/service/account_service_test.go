package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/New-Magic-Tech/interlude-backend/internal/domain"
	"github.com/New-Magic-Tech/interlude-backend/internal/service/auth"
	"github.com/New-Magic-Tech/interlude-backend/internal/store"
)

func newTestService(userStore *MockUserStore, tokens *MockTokenIssuer) *AccountServiceImpl {
	return NewAccountService(
		userStore,
		auth.NewBcryptHasher(bcrypt.MinCost),
		tokens,
		time.Hour,
		nil,
	)
}

func storedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash(password)
	require.NoError(t, err)
	user, err := domain.NewUser("alice", email, hashed)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success issues expiring token and hashes password", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		userStore.On("GetByEmail", ctx, "alice@example.com").
			Return(nil, store.ErrUserNotFound)

		var created *domain.User
		userStore.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*domain.User)
			}).
			Return(nil)

		tokens.On("IssueToken", ctx, mock.AnythingOfType("uuid.UUID"), "alice@example.com", time.Hour).
			Return("signed-token", nil)

		result, err := svc.Register(ctx, "alice", "alice@example.com", "password123", ValidInput())
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", result.Email)
		assert.Equal(t, "alice", result.Username)
		assert.Equal(t, []any{}, result.Walls)
		assert.Equal(t, "signed-token", result.Token)

		// The stored credential is a real bcrypt digest of the input, and
		// the plaintext never appears anywhere in the result.
		require.NotNil(t, created)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(created.HashedPassword), []byte("password123")))
		assert.NotEqual(t, "password123", created.HashedPassword)

		userStore.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("failed pre-validation returns structured payload", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		result := ValidationResult{
			Valid:  false,
			Errors: []ValidationIssue{{Field: "email", Message: "must be a valid email"}},
		}

		_, err := svc.Register(ctx, "alice", "nope", "password123", result)

		var vErr *ValidationFailedError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, result.Errors, vErr.Issues)

		// No store call happens when validation fails.
		userStore.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("existing email is a duplicate account", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		existing := storedUser(t, "alice@example.com", "whatever")
		userStore.On("GetByEmail", ctx, "alice@example.com").Return(existing, nil)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "password123", ValidInput())
		assert.ErrorIs(t, err, ErrDuplicateAccount)

		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost uniqueness race is a duplicate account", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		userStore.On("GetByEmail", ctx, "alice@example.com").
			Return(nil, store.ErrUserNotFound)
		userStore.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Return(store.ErrEmailExists)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "password123", ValidInput())
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	})

	t.Run("storage failure is remapped", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		userStore.On("GetByEmail", ctx, "alice@example.com").
			Return(nil, store.ErrUserNotFound)
		userStore.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Return(errors.New("connection refused"))

		_, err := svc.Register(ctx, "alice", "alice@example.com", "password123", ValidInput())
		assert.ErrorIs(t, err, ErrRegistrationFailed)
		assert.NotContains(t, err.Error(), "connection refused")
	})

	t.Run("token signing failure is remapped", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		userStore.On("GetByEmail", ctx, "alice@example.com").
			Return(nil, store.ErrUserNotFound)
		userStore.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Return(nil)
		tokens.On("IssueToken", ctx, mock.AnythingOfType("uuid.UUID"), "alice@example.com", time.Hour).
			Return("", auth.ErrSigningFailed)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "password123", ValidInput())
		assert.ErrorIs(t, err, ErrRegistrationFailed)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success issues token without expiry", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		user := storedUser(t, "alice@example.com", "password123")
		userStore.On("GetByEmail", ctx, "alice@example.com").Return(user, nil)
		tokens.On("IssueToken", ctx, user.ID, user.Email, auth.NoExpiry).
			Return("signed-token", nil)

		result, err := svc.Authenticate(ctx, "alice@example.com", "password123")
		require.NoError(t, err)

		assert.Equal(t, user.ID, result.UserID)
		assert.Equal(t, "signed-token", result.Token)
		tokens.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		user := storedUser(t, "alice@example.com", "password123")
		userStore.On("GetByEmail", ctx, "alice@example.com").Return(user, nil)
		userStore.On("GetByEmail", ctx, "nobody@example.com").
			Return(nil, store.ErrUserNotFound)

		_, wrongPassword := svc.Authenticate(ctx, "alice@example.com", "wrong")
		_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "password123")

		assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("storage failure is remapped", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		userStore.On("GetByEmail", ctx, "alice@example.com").
			Return(nil, errors.New("connection refused"))

		_, err := svc.Authenticate(ctx, "alice@example.com", "password123")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("unreadable stored digest is not invalid credentials", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		tokens := new(MockTokenIssuer)
		svc := newTestService(userStore, tokens)

		user := storedUser(t, "alice@example.com", "password123")
		user.HashedPassword = "not-a-bcrypt-digest"
		userStore.On("GetByEmail", ctx, "alice@example.com").Return(user, nil)

		_, err := svc.Authenticate(ctx, "alice@example.com", "password123")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdateField(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("replaces field and returns document", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		user := storedUser(t, "alice@example.com", "password123")
		userStore.On("GetByID", ctx, user.ID).Return(user, nil)
		userStore.On("Update", ctx, user).Return(nil)

		doc, err := svc.UpdateField(ctx, user.ID, "bio", "hello")
		require.NoError(t, err)

		assert.Equal(t, "hello", doc["bio"])
		assert.Equal(t, user.ID.String(), doc["id"])
		userStore.AssertExpectations(t)
	})

	t.Run("unknown account reported before touching fields", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		id := uuid.New()
		userStore.On("GetByID", ctx, id).Return(nil, store.ErrUserNotFound)

		_, err := svc.UpdateField(ctx, id, "bio", "hello")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("reserved field is an update failure", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		user := storedUser(t, "alice@example.com", "password123")
		userStore.On("GetByID", ctx, user.ID).Return(user, nil)

		_, err := svc.UpdateField(ctx, user.ID, "password", "plaintext")
		assert.ErrorIs(t, err, ErrUpdateFailed)
		userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("persist failure is remapped", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		user := storedUser(t, "alice@example.com", "password123")
		userStore.On("GetByID", ctx, user.ID).Return(user, nil)
		userStore.On("Update", ctx, user).Return(errors.New("connection refused"))

		_, err := svc.UpdateField(ctx, user.ID, "bio", "hello")
		assert.ErrorIs(t, err, ErrUpdateFailed)
	})
}

func TestAppendField(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("appends to walls in order", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		user := storedUser(t, "alice@example.com", "password123")
		require.NoError(t, user.AppendField("walls", "first"))
		userStore.On("GetByID", ctx, user.ID).Return(user, nil)
		userStore.On("Update", ctx, user).Return(nil)

		doc, err := svc.AppendField(ctx, user.ID, "walls", "second")
		require.NoError(t, err)

		assert.Equal(t, []any{"first", "second"}, doc["walls"])
	})

	t.Run("unknown account is reported", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		id := uuid.New()
		userStore.On("GetByID", ctx, id).Return(nil, store.ErrUserNotFound)

		_, err := svc.AppendField(ctx, id, "walls", "entry")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("appending to a non-list field fails", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		user := storedUser(t, "alice@example.com", "password123")
		require.NoError(t, user.SetField("bio", "hello"))
		userStore.On("GetByID", ctx, user.ID).Return(user, nil)

		_, err := svc.AppendField(ctx, user.ID, "bio", "entry")
		assert.ErrorIs(t, err, ErrUpdateFailed)
		userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("appending to a missing field fails", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		user := storedUser(t, "alice@example.com", "password123")
		userStore.On("GetByID", ctx, user.ID).Return(user, nil)

		_, err := svc.AppendField(ctx, user.ID, "posts", "entry")
		assert.ErrorIs(t, err, ErrUpdateFailed)
	})
}

func TestGetDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns document without credentials", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		user := storedUser(t, "alice@example.com", "password123")
		userStore.On("GetByID", ctx, user.ID).Return(user, nil)

		doc, err := svc.GetDocument(ctx, user.ID)
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", doc["email"])
		assert.NotContains(t, doc, "password")
		assert.NotContains(t, doc, "hashed_password")
	})

	t.Run("unknown account folds into fetch failure", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		id := uuid.New()
		userStore.On("GetByID", ctx, id).Return(nil, store.ErrUserNotFound)

		_, err := svc.GetDocument(ctx, id)
		assert.ErrorIs(t, err, ErrFetchFailed)
	})

	t.Run("storage failure folds into fetch failure", func(t *testing.T) {
		t.Parallel()
		userStore := new(MockUserStore)
		svc := newTestService(userStore, new(MockTokenIssuer))

		id := uuid.New()
		userStore.On("GetByID", ctx, id).Return(nil, errors.New("connection refused"))

		_, err := svc.GetDocument(ctx, id)
		assert.ErrorIs(t, err, ErrFetchFailed)
	})
}
