package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// DefaultErrorMessage is used when neither the payload nor the status line
// describe the failure.
const DefaultErrorMessage = "Request failed"

// APIError is a non-2xx response from the backend.
type APIError struct {
	Message string
	Status  int
	Payload any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Is makes a 401 response match ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsUnavailable reports whether err is a network-level failure rather than
// an answer from the backend.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
