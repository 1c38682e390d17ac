package bff

import (
	"encoding/json"
	"errors"
	"fmt"

	domainauth "github.com/turnkeystaffing/bff-auth-go/internal/domain/auth"
)

// HTTPError is a non-2xx response from the BFF. It preserves the raw body
// so callers (login form, interceptors) can interpret the status and any
// structured error payload themselves.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("bff returned status %d", e.StatusCode)
}

// BackendError attempts to decode the response body as a structured
// backend error. The second return is false when the body is not JSON or
// carries no detail/error_type at all.
func (e *HTTPError) BackendError() (domainauth.BackendError, bool) {
	var backendErr domainauth.BackendError
	if len(e.Body) == 0 {
		return backendErr, false
	}
	if err := json.Unmarshal(e.Body, &backendErr); err != nil {
		return domainauth.BackendError{}, false
	}
	if backendErr.Detail == "" && backendErr.ErrorType == "" {
		return domainauth.BackendError{}, false
	}
	return backendErr, true
}

// asHTTPError unwraps err into an *HTTPError if one is in the chain.
func asHTTPError(err error, target **HTTPError) bool {
	return errors.As(err, target)
}
