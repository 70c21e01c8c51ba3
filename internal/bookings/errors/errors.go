package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged is returned when a conditional status update matched no
	// document because the booking moved out of the expected status between
	// read and write.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
