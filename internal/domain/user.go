package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Field mapping errors
var (
	// ErrFieldNotFound is returned when appending to a field that does not exist.
	ErrFieldNotFound = errors.New("field not found")

	// ErrFieldNotList is returned when appending to a field that is not list-valued.
	ErrFieldNotList = errors.New("field is not list-valued")

	// ErrReservedField is returned when a caller-supplied field name would
	// overwrite credential or identity data that must not change this way.
	ErrReservedField = errors.New("field name is reserved")

	// ErrInvalidFieldValue is returned when a value has the wrong type for a
	// typed field (e.g. a non-string username).
	ErrInvalidFieldValue = errors.New("invalid value for field")
)

// Reserved field names that route to typed columns instead of the open-ended
// field mapping. "password" and "id" are never settable through the mapping.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

// User represents a registered account: identity, credential, and the
// open-ended document fields owned by that account.
type User struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	Username       string         `json:"username"`
	HashedPassword string         `json:"-"` // Never expose the password hash in JSON
	Fields         map[string]any `json:"fields"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewUser creates a new User with the given username, email, and an already
// hashed password. It generates a new UUID for the user ID, initializes the
// field mapping with an empty "walls" collection, and sets the
// creation/update timestamps. Returns an error if validation fails.
//
// NOTE: callers must hash the password before constructing the user; this
// function never sees plaintext credentials.
func NewUser(username, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		Username:       username,
		HashedPassword: hashedPassword,
		Fields: map[string]any{
			"walls": []any{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// SetField replaces the value stored under the given caller-supplied field
// name. The reserved names "username" and "email" update the typed identity
// columns and require string values; any other name writes into the
// open-ended field mapping with no schema check.
func (u *User) SetField(name string, value any) error {
	switch name {
	case FieldUsername:
		s, ok := value.(string)
		if !ok || s == "" {
			return ErrInvalidFieldValue
		}
		u.Username = s
	case FieldEmail:
		s, ok := value.(string)
		if !ok || !validateEmailFormat(s) {
			return ErrInvalidFieldValue
		}
		u.Email = s
	case "password", "id":
		return ErrReservedField
	default:
		if u.Fields == nil {
			u.Fields = make(map[string]any)
		}
		u.Fields[name] = value
	}

	u.UpdatedAt = time.Now().UTC()
	return nil
}

// AppendField appends one entry to the list stored under the given field
// name. The field must already exist in the mapping and hold a list; typed
// identity columns are never list-valued.
func (u *User) AppendField(name string, entry any) error {
	switch name {
	case FieldUsername, FieldEmail:
		return ErrFieldNotList
	case "password", "id":
		return ErrReservedField
	}

	value, ok := u.Fields[name]
	if !ok {
		return ErrFieldNotFound
	}

	list, ok := value.([]any)
	if !ok {
		return ErrFieldNotList
	}

	u.Fields[name] = append(list, entry)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Walls returns the account's "walls" collection, or an empty list if the
// field is missing or has been replaced with a non-list value.
func (u *User) Walls() []any {
	if list, ok := u.Fields["walls"].([]any); ok {
		return list
	}
	return []any{}
}

// Document returns the merged snapshot exposed to callers: identity fields
// plus every entry of the open-ended mapping. The password hash is never
// part of the document.
func (u *User) Document() map[string]any {
	doc := make(map[string]any, len(u.Fields)+3)
	for name, value := range u.Fields {
		doc[name] = value
	}
	doc["id"] = u.ID.String()
	doc["email"] = u.Email
	doc["username"] = u.Username
	return doc
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
// Request-level validation applies stricter rules; this is a last line of
// defense for users constructed outside the API layer.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
