package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 answer from the server.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable wraps transport failures.
	ErrUnavailable = errors.New("server unavailable")
	// ErrNotAuthenticated is returned by operations that need a signed-in user.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrSuperseded is returned when a newer auth operation replaced this one's result.
	ErrSuperseded = errors.New("superseded by a newer sign-in or sign-out")
	// ErrInvalidCombo is returned before any request when a draft cannot be saved.
	ErrInvalidCombo = errors.New("invalid combo")
)

// APIError is a non-2xx answer carrying the server's error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}
