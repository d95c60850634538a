package repositories

import "errors"

var (
	// ErrNotFound is returned when a requested record or section does not
	// exist in the store.
	ErrNotFound = errors.New("record not found")
)

// IsNotFoundError checks if error represents a "not found" condition
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
