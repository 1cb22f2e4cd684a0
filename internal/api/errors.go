package api

import (
	"errors"
	"fmt"

	"github.com/Veraticus/malex-office/internal/common"
)

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Err    error
	Method string
	Path   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned for non-2xx responses. Message holds the backend's
// "error" field when the body carried one.
type StatusError struct {
	Status  string
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

// Unwrap maps 5xx responses onto common.ErrBackendUnavailable so callers can
// decide whether a retry makes sense.
func (e *StatusError) Unwrap() error {
	if e.Code >= 500 {
		return common.ErrBackendUnavailable
	}
	return nil
}

// AppError is returned when the backend answered 2xx but reported failure in
// the payload.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// UserMessage returns the most specific human readable reason for err: the
// backend's message when there is one, a generic network or status message
// otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	if errors.Is(err, common.ErrNotAuthenticated) {
		return "Authentication failed, please log in again"
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "Network error"
	}

	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	return err.Error()
}
