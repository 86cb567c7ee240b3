package repository

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task does not exist or belongs to another user
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskAlreadyCompleted is returned when completing a task that is already done
	ErrTaskAlreadyCompleted = errors.New("task already completed")

	// ErrUserNotFound is returned when a user has no stored settings
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable wraps every failure of the underlying database
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
