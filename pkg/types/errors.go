package types

import "errors"

// Standard errors returned by the storage layers.
var (
	// ErrClosed is returned by operations on a store after Close.
	ErrClosed = errors.New("store is closed")

	// ErrNotFound is returned when an entity does not exist. Callers treat
	// it as absence, not as a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned when an operation receives an empty id.
	ErrInvalidID = errors.New("invalid id")

	// ErrVanished is returned when an entity that was just written cannot
	// be read back, typically because a concurrent caller deleted it
	// between the two steps of a patch-then-sync operation.
	ErrVanished = errors.New("entity vanished during operation")

	// ErrInvalidData is returned when a caller passes a malformed entity.
	ErrInvalidData = errors.New("invalid data")
)
