package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/malex-office/internal/common"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidLimit  = errors.New("limit must be positive")
	ErrInvalidAction = errors.New("invalid activity")

	// ErrDatabaseCorrupted is re-exported so callers need not import common.
	ErrDatabaseCorrupted = common.ErrDatabaseCorrupted
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return nil
}

func validateActivity(a *Activity) error {
	if a == nil {
		return fmt.Errorf("%w: activity", ErrNilParameter)
	}
	if strings.TrimSpace(a.Action) == "" {
		return fmt.Errorf("%w: missing action", ErrInvalidAction)
	}
	if strings.TrimSpace(a.Subject) == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidAction)
	}
	return nil
}
