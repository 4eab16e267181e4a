package clients

import "errors"

var (
	// ErrNotFound is returned when no client exists for a number.
	ErrNotFound = errors.New("client not found")

	// ErrEmptyNumber is returned when a contact normalizes to nothing.
	ErrEmptyNumber = errors.New("contact has no digits")
)
