package appointments

import "errors"

var (
	// ErrSlotTaken is returned by Create when another appointment
	// already holds the same (barber, slot label) pair.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrNotFound is returned when an appointment does not exist or
	// is not owned by the requesting client.
	ErrNotFound = errors.New("appointment not found")
)
