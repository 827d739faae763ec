package observation

import "errors"

var (
	// ErrNoRadMax is returned when an observation carries no usable RAD_MAX
	// values, so the ON region radius is undefined.
	ErrNoRadMax = errors.New("observation has no rad_max values")
	// ErrInvalidObservation covers malformed observation documents.
	ErrInvalidObservation = errors.New("invalid observation")
)
