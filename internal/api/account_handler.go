package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/New-Magic-Tech/interlude-backend/internal/api/shared"
	"github.com/New-Magic-Tech/interlude-backend/internal/service"
)

// AccountHandler handles account and user-document API requests.
type AccountHandler struct {
	accounts  service.AccountService
	validator *validator.Validate
}

// NewAccountHandler creates a new AccountHandler with the given dependencies.
func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		validator: validator.New(),
	}
}

// Signup handles POST /api/users/signup.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// The validator output is handed to the service as the pre-validation
	// result; the service decides how failures are reported.
	preValidation := h.validateRequest(req)

	result, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password, preValidation)
	if err != nil {
		var validationErr *service.ValidationFailedError
		if errors.As(err, &validationErr) {
			shared.RespondWithJSON(w, r, http.StatusUnprocessableEntity, ValidationFailedResponse{
				Error:  validationErr.Error(),
				Errors: validationErr.Issues,
			})
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:   result.UserID,
		Email:    result.Email,
		Username: result.Username,
		Walls:    result.Walls,
		Token:    result.Token,
	})
}

// Signin handles POST /api/users/signin.
func (h *AccountHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+sanitizeValidationError(err))
		return
	}

	result, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:   result.UserID,
		Email:    result.Email,
		Username: result.Username,
		Walls:    result.Walls,
		Token:    result.Token,
	})
}

// GetDocument handles GET /api/users/{uid}.
func (h *AccountHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	doc, err := h.accounts.GetDocument(r.Context(), uid)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DocumentResponse{UserDoc: doc})
}

// UpdateField handles PATCH /api/users/{uid}.
func (h *AccountHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeMutation(w, r)
	if !ok {
		return
	}

	doc, err := h.accounts.UpdateField(r.Context(), uid, req.Field, req.Info)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DocumentResponse{UserDoc: doc})
}

// AppendField handles POST /api/users/{uid}/push.
func (h *AccountHandler) AppendField(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeMutation(w, r)
	if !ok {
		return
	}

	doc, err := h.accounts.AppendField(r.Context(), uid, req.Field, req.Info)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DocumentResponse{UserDoc: doc})
}

// pathUserID extracts and parses the {uid} path parameter, writing a 400
// response on failure.
func (h *AccountHandler) pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "uid")
	uid, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return uid, true
}

// decodeMutation decodes and validates a field mutation payload, writing a
// 400 response on failure.
func (h *AccountHandler) decodeMutation(w http.ResponseWriter, r *http.Request) (FieldMutationRequest, bool) {
	var req FieldMutationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+sanitizeValidationError(err))
		return req, false
	}
	return req, true
}

// validateRequest runs struct validation and converts the outcome into the
// service's pre-validation result shape.
func (h *AccountHandler) validateRequest(v interface{}) service.ValidationResult {
	err := h.validator.Struct(v)
	if err == nil {
		return service.ValidInput()
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return service.ValidationResult{
			Errors: []service.ValidationIssue{{Field: "request", Message: "validation failed"}},
		}
	}

	issues := make([]service.ValidationIssue, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		issues = append(issues, service.ValidationIssue{
			Field:   strings.ToLower(fe.Field()),
			Message: validationTagMessage(fe.Tag()),
		})
	}
	return service.ValidationResult{Errors: issues}
}

// sanitizeValidationError reduces a validator error to a short,
// caller-safe description.
func sanitizeValidationError(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return "invalid " + strings.ToLower(fe.Field()) + ": " + validationTagMessage(fe.Tag())
	}
	return "validation failed"
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
