package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references another entity that does not exist.
	// Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors.

	// ErrTestNotFound indicates that the requested generated test does not
	// exist in the store.
	ErrTestNotFound = fmt.Errorf("%w: test", ErrNotFound)

	// ErrResultNotFound indicates that the requested test result does not
	// exist in the store.
	ErrResultNotFound = fmt.Errorf("%w: test result", ErrNotFound)

	// ErrTopicNotFound indicates that the requested topic does not exist
	// in the store.
	ErrTopicNotFound = fmt.Errorf("%w: topic", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
