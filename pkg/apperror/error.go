package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error carrying an HTTP status, a stable code and
// a message that is safe to show to the visitor.
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
	Internal   error
	Details    map[string]any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the internal error
func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches errors by code so that errors.Is works against the sentinels
// below even after WithMessage/WithInternal copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithInternal returns a copy of the error with an internal error attached
func (e *Error) WithInternal(err error) *Error {
	c := *e
	c.Internal = err
	return &c
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(message string) *Error {
	c := *e
	c.Message = message
	return &c
}

// WithDetails returns a copy of the error with details attached
func (e *Error) WithDetails(details map[string]any) *Error {
	c := *e
	c.Details = details
	return &c
}

// New creates a new application error
func New(status int, code, message string) *Error {
	return &Error{
		HTTPStatus: status,
		Code:       code,
		Message:    message,
	}
}

var (
	ErrBadRequest = New(http.StatusBadRequest, "bad_request", "Invalid request")
	ErrNotFound   = New(http.StatusNotFound, "not_found", "Resource not found")
	ErrInternal   = New(http.StatusInternalServerError, "internal_error", "An internal error occurred")

	// Waitlist submission outcomes. Messages are the ones shown on the page.
	ErrValidation       = New(http.StatusUnprocessableEntity, "validation_error", "Please enter a valid email address.")
	ErrRejectedByServer = New(http.StatusBadRequest, "rejected_by_server", "Something went wrong. Please try again.")
	ErrTransportFailure = New(http.StatusBadGateway, "transport_failure", "Error submitting form.")
	ErrTooManyRequests  = New(http.StatusTooManyRequests, "too_many_requests", "Too many attempts. Please wait a minute and try again.")
	ErrAlreadySubmitted = New(http.StatusConflict, "already_submitted", "You have already joined the waitlist.")
)

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the application error code in err's chain, or "" when err
// is not an application error.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}

// ToHTTPError converts an app error to an HTTP-friendly format
func ToHTTPError(err error) (int, map[string]any) {
	if appErr, ok := As(err); ok {
		errBody := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if len(appErr.Details) > 0 {
			errBody["details"] = appErr.Details
		}
		return appErr.HTTPStatus, map[string]any{
			"error": errBody,
		}
	}

	return http.StatusInternalServerError, map[string]any{
		"error": map[string]any{
			"code":    ErrInternal.Code,
			"message": ErrInternal.Message,
		},
	}
}

// NewBadRequest creates a bad request error with a custom message
func NewBadRequest(message string) *Error {
	return ErrBadRequest.WithMessage(message)
}

// NewInternal creates an internal error with a message and optional wrapped error
func NewInternal(message string, err error) *Error {
	return ErrInternal.WithMessage(message).WithInternal(err)
}
