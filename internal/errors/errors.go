package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation wraps every request validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The message is the same for unknown accounts and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when a protected operation has no resolved identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrWrongPassword is returned when the current password does not match on change.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrWeakPassword is returned when a new password violates the length policy.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrComboNotFound is returned for missing combos and for combos owned by someone else.
	ErrComboNotFound = errors.New("combo not found")
	// ErrMailDelivery is returned when the password reset email could not be sent.
	ErrMailDelivery = errors.New("password reset email could not be delivered, try again later")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unknown becomes a 500
// without leaking the underlying message.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrWeakPassword):
		return NewHTTPError(http.StatusBadRequest, ErrWeakPassword.Error(), "WEAK_PASSWORD")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrWrongPassword):
		return NewHTTPError(http.StatusUnauthorized, ErrWrongPassword.Error(), "WRONG_PASSWORD")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrComboNotFound):
		return NewHTTPError(http.StatusNotFound, ErrComboNotFound.Error(), "COMBO_NOT_FOUND")
	case errors.Is(err, ErrMailDelivery):
		return NewHTTPError(http.StatusServiceUnavailable, ErrMailDelivery.Error(), "MAIL_DELIVERY_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
