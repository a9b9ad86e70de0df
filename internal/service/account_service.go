package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/New-Magic-Tech/interlude-backend/internal/domain"
	"github.com/New-Magic-Tech/interlude-backend/internal/service/auth"
	"github.com/New-Magic-Tech/interlude-backend/internal/store"
)

// AuthResult is the value returned on successful registration or
// authentication. It never includes the password hash.
type AuthResult struct {
	UserID   uuid.UUID `json:"userId"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Walls    []any     `json:"walls"`
	Token    string    `json:"token"`
}

// AccountService implements account registration, credential
// authentication, and user-document mutation on top of the user store,
// password hasher, and token issuer.
type AccountService interface {
	// Register creates a new account and returns an AuthResult carrying a
	// token with the configured registration expiry. The pre-validation
	// result is interpreted first: failures come back as a
	// *ValidationFailedError payload, not a generic error.
	Register(ctx context.Context, username, email, password string, preValidation ValidationResult) (*AuthResult, error)

	// Authenticate verifies credentials and returns an AuthResult carrying
	// a token without an expiry claim. Unknown email and wrong password are
	// indistinguishable in the returned error.
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)

	// UpdateField replaces the value of one caller-named document field and
	// returns the updated document snapshot.
	UpdateField(ctx context.Context, accountID uuid.UUID, field string, value any) (map[string]any, error)

	// AppendField appends one entry to a list-valued document field and
	// returns the updated document snapshot.
	AppendField(ctx context.Context, accountID uuid.UUID, field string, entry any) (map[string]any, error)

	// GetDocument returns the account's document snapshot.
	GetDocument(ctx context.Context, accountID uuid.UUID) (map[string]any, error)
}

// AccountServiceImpl implements the AccountService interface.
type AccountServiceImpl struct {
	userStore            store.UserStore
	hasher               auth.PasswordHasher
	tokens               auth.TokenIssuer
	registrationTokenTTL time.Duration
	logger               *slog.Logger
}

// Ensure AccountServiceImpl implements AccountService
var _ AccountService = (*AccountServiceImpl)(nil)

// NewAccountService creates a new AccountService.
func NewAccountService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.TokenIssuer,
	registrationTokenTTL time.Duration,
	logger *slog.Logger,
) *AccountServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountServiceImpl{
		userStore:            userStore,
		hasher:               hasher,
		tokens:               tokens,
		registrationTokenTTL: registrationTokenTTL,
		logger:               logger.With("component", "account_service"),
	}
}

// Register creates an account after checking pre-validation, email
// uniqueness, and hashing the password, then issues a time-bounded token.
// The step order is fixed: uniqueness is checked before any hashing work.
func (s *AccountServiceImpl) Register(
	ctx context.Context,
	username, email, password string,
	preValidation ValidationResult,
) (*AuthResult, error) {
	if !preValidation.Valid {
		return nil, &ValidationFailedError{Issues: preValidation.Errors}
	}

	_, err := s.userStore.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Debug("attempted to register an existing email", "email", email)
		return nil, ErrDuplicateAccount
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		s.logger.Error("email lookup failed during registration",
			"error", err,
			"email", email)
		return nil, ErrRegistrationFailed
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("password hashing failed during registration", "error", err)
		return nil, ErrRegistrationFailed
	}

	user, err := domain.NewUser(username, email, hashed)
	if err != nil {
		s.logger.Error("failed to construct user during registration",
			"error", err,
			"email", email)
		return nil, ErrRegistrationFailed
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the lookup above; the
		// unique constraint is the authority.
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("registration lost race on email uniqueness", "email", email)
			return nil, ErrDuplicateAccount
		}
		s.logger.Error("failed to persist user during registration",
			"error", err,
			"email", email)
		return nil, ErrRegistrationFailed
	}

	token, err := s.tokens.IssueToken(ctx, user.ID, user.Email, s.registrationTokenTTL)
	if err != nil {
		s.logger.Error("failed to issue registration token",
			"error", err,
			"user_id", user.ID)
		return nil, ErrRegistrationFailed
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"email", user.Email)

	return &AuthResult{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Walls:    user.Walls(),
		Token:    token,
	}, nil
}

// Authenticate verifies an email/password pair and issues a token without
// an expiry claim. An unknown email and a wrong password produce the same
// ErrInvalidCredentials.
func (s *AccountServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*AuthResult, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("email lookup failed during authentication",
			"error", err,
			"email", email)
		return nil, ErrAuthenticationFailed
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		// Anything else means the stored digest is unusable, not that the
		// caller's password is wrong.
		s.logger.Error("password verification failed during authentication",
			"error", err,
			"user_id", user.ID)
		return nil, ErrAuthenticationFailed
	}

	token, err := s.tokens.IssueToken(ctx, user.ID, user.Email, auth.NoExpiry)
	if err != nil {
		s.logger.Error("failed to issue sign-in token",
			"error", err,
			"user_id", user.ID)
		return nil, ErrAuthenticationFailed
	}

	return &AuthResult{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Walls:    user.Walls(),
		Token:    token,
	}, nil
}

// UpdateField replaces a document field. The account is resolved first and
// not-found is reported before any field is touched.
func (s *AccountServiceImpl) UpdateField(
	ctx context.Context,
	accountID uuid.UUID,
	field string,
	value any,
) (map[string]any, error) {
	user, err := s.fetchForMutation(ctx, accountID, "update")
	if err != nil {
		return nil, err
	}

	if err := user.SetField(field, value); err != nil {
		s.logger.Debug("rejected field update",
			"error", err,
			"user_id", accountID,
			"field", field)
		return nil, ErrUpdateFailed
	}

	if err := s.persistMutation(ctx, user, "update", field); err != nil {
		return nil, err
	}

	return user.Document(), nil
}

// AppendField appends one entry to a list-valued document field. The
// account is resolved first and not-found is reported before any field is
// touched.
func (s *AccountServiceImpl) AppendField(
	ctx context.Context,
	accountID uuid.UUID,
	field string,
	entry any,
) (map[string]any, error) {
	user, err := s.fetchForMutation(ctx, accountID, "append")
	if err != nil {
		return nil, err
	}

	if err := user.AppendField(field, entry); err != nil {
		s.logger.Debug("rejected field append",
			"error", err,
			"user_id", accountID,
			"field", field)
		return nil, ErrUpdateFailed
	}

	if err := s.persistMutation(ctx, user, "append", field); err != nil {
		return nil, err
	}

	return user.Document(), nil
}

// GetDocument returns the account's document snapshot. Every failure,
// including a missing account, is reported as ErrFetchFailed.
func (s *AccountServiceImpl) GetDocument(
	ctx context.Context,
	accountID uuid.UUID,
) (map[string]any, error) {
	user, err := s.userStore.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("document fetch for unknown user", "user_id", accountID)
		} else {
			s.logger.Error("failed to fetch user document",
				"error", err,
				"user_id", accountID)
		}
		return nil, ErrFetchFailed
	}

	return user.Document(), nil
}

// fetchForMutation resolves the account for update/append operations,
// branching on not-found before anything else happens.
func (s *AccountServiceImpl) fetchForMutation(
	ctx context.Context,
	accountID uuid.UUID,
	op string,
) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("document mutation for unknown user",
				"user_id", accountID,
				"operation", op)
			return nil, ErrAccountNotFound
		}
		s.logger.Error("failed to fetch user for mutation",
			"error", err,
			"user_id", accountID,
			"operation", op)
		return nil, ErrUpdateFailed
	}
	return user, nil
}

// persistMutation saves an in-place mutation. Concurrent writers are not
// synchronized here; last write wins.
func (s *AccountServiceImpl) persistMutation(
	ctx context.Context,
	user *domain.User,
	op, field string,
) error {
	if err := s.userStore.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Deleted between fetch and save.
			return ErrAccountNotFound
		}
		s.logger.Error("failed to persist document mutation",
			"error", err,
			"user_id", user.ID,
			"operation", op,
			"field", field)
		return ErrUpdateFailed
	}
	return nil
}
