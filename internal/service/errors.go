package service

import "errors"

// Operation-boundary errors returned to callers. Internal causes (storage,
// hashing, signing) are logged and remapped to one of these; their detail is
// never surfaced. The messages match what the API layer sends to clients.
var (
	// ErrRegistrationFailed covers every internal failure during signup.
	ErrRegistrationFailed = errors.New("signing up failed, please try again later")

	// ErrDuplicateAccount is returned when the email is already registered.
	ErrDuplicateAccount = errors.New("user exists already, please login instead")

	// ErrAuthenticationFailed covers every internal failure during sign-in.
	ErrAuthenticationFailed = errors.New("logging in failed, please try again later")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password. Same kind, same message: callers must not be able to
	// probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials, could not log you in")

	// ErrUpdateFailed covers storage failures and bad field operations
	// during document updates.
	ErrUpdateFailed = errors.New("failed to update user")

	// ErrAccountNotFound is returned when a document operation targets an
	// ID with no account behind it.
	ErrAccountNotFound = errors.New("could not find user for provided id")

	// ErrFetchFailed covers every failure while fetching a user document,
	// including a missing account.
	ErrFetchFailed = errors.New("fetching users failed, please try again later")
)

// ValidationIssue describes a single failed input check from the
// pre-validation step.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of request pre-validation, produced
// outside the service and interpreted by Register.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationIssue
}

// Valid returns a passing ValidationResult.
func ValidInput() ValidationResult {
	return ValidationResult{Valid: true}
}

// ValidationFailedError carries the caller's validation issues back as a
// structured payload. This is the only error kind that exposes
// caller-supplied detail.
type ValidationFailedError struct {
	Issues []ValidationIssue
}

// Error implements the error interface for ValidationFailedError.
func (e *ValidationFailedError) Error() string {
	return "invalid inputs passed, please check your data"
}
