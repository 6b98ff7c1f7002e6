package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers transport failures and 5xx responses.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized covers 401/403 responses on authenticated calls.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries the backend's own message for a rejected request, the
// way the backend reports it ("detail" field). It is returned for 4xx
// statuses that are not authorization failures.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Detail)
}
