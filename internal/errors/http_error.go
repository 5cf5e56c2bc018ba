package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the booking domain. Services wrap these with context;
// handlers map them to status codes with errors.Is.
var (
	// ErrNotFound: an attendee or meeting reference does not resolve.
	ErrNotFound = stderrors.New("not found")
	// ErrSlotUnavailable: the requested window cannot be booked (out of
	// working hours, overlap, blocked, or in the past).
	ErrSlotUnavailable = stderrors.New("slot unavailable")
	// ErrConflict: the operation is not valid for the record's current state.
	ErrConflict = stderrors.New("conflict")
	// ErrInvalidInput: the request failed validation.
	ErrInvalidInput = stderrors.New("invalid input")
)

// SlotUnavailable wraps ErrSlotUnavailable with the failing predicate.
func SlotUnavailable(reason string) error {
	return fmt.Errorf("%w: %s", ErrSlotUnavailable, reason)
}

// NotFound wraps ErrNotFound naming the missing reference.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// InvalidInput wraps ErrInvalidInput with the validation failure.
func InvalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// StatusCode maps a domain error to the HTTP status it should surface as.
func StatusCode(err error) int {
	var httpErr *HTTPError
	switch {
	case stderrors.As(err, &httpErr):
		return httpErr.Code
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrSlotUnavailable), stderrors.Is(err, ErrConflict):
		return http.StatusConflict
	case stderrors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
