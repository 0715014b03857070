package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad input shape, size or count. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned for ids that do not exist and for ids owned by
	// somebody else alike.
	ErrNotFound = errors.New("not found")
	// ErrPayloadTooLarge marks a single file above the per-file size ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrStoreUnavailable wraps failures of the underlying persistence layer.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
