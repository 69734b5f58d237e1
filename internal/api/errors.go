package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// APIError is a non-2xx response from the backend. Detail carries the
// backend's "detail" message verbatim when one was present.
type APIError struct {
	StatusCode int
	Detail     string
	Op         string // operation that failed, e.g. "ListDocuments"
}

func (e *APIError) Error() string {
	if e.Op != "" {
		if e.Detail != "" {
			return fmt.Sprintf("%s: status=%d detail=%s", e.Op, e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("%s: status=%d", e.Op, e.StatusCode)
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error: status=%d detail=%s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// AuthError indicates a 401 or 403 response. The client has already
// invoked its unauthorized hook by the time one of these is returned.
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

func (e *AuthError) Unwrap() error { return e.APIError }

// BadRequestError indicates a 400/422 request problem (validation,
// unsupported file type, invalid credentials).
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.APIError.Error())
}

func (e *BadRequestError) Unwrap() error { return e.APIError }

// NotFoundError indicates a 404 for a document or task id.
type NotFoundError struct{ *APIError }

func (e *NotFoundError) Error() string { return fmt.Sprintf("not found: %s", e.APIError.Error()) }

func (e *NotFoundError) Unwrap() error { return e.APIError }

// RateLimitError indicates a 429 and may include a Retry-After hint.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

func (e *RateLimitError) Unwrap() error { return e.APIError }

// ServerError indicates a 5xx response from the backend.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("server error: %s", e.APIError.Error()) }

func (e *ServerError) Unwrap() error { return e.APIError }

// UnreachableError means no response was received at all: the backend
// is down or the base URL is wrong. Kept distinct from authorization
// failures so callers can tell "cannot reach server" apart from
// "logged out".
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("cannot reach backend at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("cannot reach backend: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// ValidationError is a client-side rejection (file type or size).
// These never result in a network request.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid file %q: %s", e.Filename, e.Reason)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnauthorized reports whether err is a 401/403 from the backend.
func IsUnauthorized(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsUnreachable reports whether err means the backend could not be
// reached at all.
func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}

// classify maps a raw APIError to a typed error based on status code.
func classify(apiErr *APIError, resp *http.Response) error {
	switch sc := apiErr.StatusCode; {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		return &AuthError{apiErr}
	case sc == http.StatusNotFound:
		return &NotFoundError{apiErr}
	case sc == http.StatusBadRequest || sc == http.StatusUnprocessableEntity:
		return &BadRequestError{apiErr}
	case sc == http.StatusTooManyRequests:
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: ra}
	case sc >= 500 && sc <= 599:
		return &ServerError{apiErr}
	default:
		return apiErr
	}
}
