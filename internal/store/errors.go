package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. Entity-specific variants below wrap it so callers can
	// match either the generic or the precise condition.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. the same word text, or a second tracking
	// record for one learner/word pair).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that does not exist.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or an operation within it fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrWordNotFound indicates that the requested word does not exist.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)

	// ErrUserWordNotFound indicates that the requested learner word state
	// does not exist.
	ErrUserWordNotFound = fmt.Errorf("%w: user word", ErrNotFound)

	// ErrProgressNotFound indicates that no progress record exists for the
	// learner.
	ErrProgressNotFound = fmt.Errorf("%w: learner progress", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrWordExists indicates a word with the given text already exists.
	ErrWordExists = fmt.Errorf("%w: word text", ErrDuplicate)

	// ErrUserWordExists indicates the learner already tracks the word.
	ErrUserWordExists = fmt.Errorf("%w: learner word", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
