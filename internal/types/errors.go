package types

import "errors"

// Domain errors are caller-recoverable and map to 4xx responses.
// Anything else bubbling out of a repository is treated as an
// infrastructure failure and maps to a generic 500.
var (
	// ErrNoPlacesAttached is returned when itinerary generation is requested
	// for a trip without any attached candidate places.
	ErrNoPlacesAttached = errors.New("no places added for this trip")

	// ErrNoOriginPoint is returned when a trip has neither a start location
	// nor a fixed place to anchor distance calculations on.
	ErrNoOriginPoint = errors.New("trip has no origin point (no fixed places and no start location)")

	// ErrDuplicateAttachment is returned when a place is attached to a trip
	// it is already attached to.
	ErrDuplicateAttachment = errors.New("place is already attached to this trip")

	// ErrTripNotFound is returned when the requested trip does not exist.
	ErrTripNotFound = errors.New("trip not found")
)
