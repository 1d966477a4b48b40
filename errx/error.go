package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes. Every error returned to a screen wraps exactly one of these.
var (
	ErrTransport        = errors.New("transport failure")
	ErrSessionExpired   = errors.New("session expired")
	ErrValidation       = errors.New("validation failed")
	ErrNotAuthenticated = errors.New("not authenticated")
)

const (
	// SessionExpiredMessage is shown after a forced logout.
	SessionExpiredMessage = "Your session has expired. Please login again."
	// UnknownErrorMessage is the fallback when a server gives no reason.
	UnknownErrorMessage = "Unknown error"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Transport reports a network failure (status 0) or a non-2xx response.
func Transport(status int, message string, cause error) error {
	if message == "" {
		message = UnknownErrorMessage
	}
	err := ErrTransport
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrTransport, cause)
	}
	return New(err, status, message)
}

// Expired is returned after a 401 forced the session closed.
func Expired() error {
	return New(ErrSessionExpired, http.StatusUnauthorized, SessionExpiredMessage)
}

// Invalid is a local validation failure; no request was sent.
func Invalid(message string) error {
	return New(ErrValidation, http.StatusBadRequest, message)
}

// NotAuthenticated is a missing-login precondition; no request was sent.
func NotAuthenticated(message string) error {
	if message == "" {
		message = "Please login first."
	}
	return New(ErrNotAuthenticated, http.StatusUnauthorized, message)
}

// Message returns the short user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// Network replaces the message of a status-0 transport failure with the
// screen's own wording. Server errors keep the server's message.
func Network(err error, message string) error {
	if err == nil || !errors.Is(err, ErrTransport) || StatusOf(err) != 0 {
		return err
	}
	return New(err, 0, message)
}
