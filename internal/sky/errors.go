package sky

import "errors"

// Sentinel errors for sky geometry. Callers match them with errors.Is.
var (
	ErrFrameMismatch     = errors.New("coordinate frame mismatch")
	ErrOutsideProjection = errors.New("coordinate outside projection")
	ErrInvalidGeometry   = errors.New("invalid sky geometry")
	ErrInvalidOffCount   = errors.New("number of off regions must be at least 1")
	ErrNoWobbleOffset    = errors.New("source coincides with pointing")
	ErrUnknownFrame      = errors.New("unknown coordinate frame")
	ErrUnknownProjection = errors.New("unknown projection")
)
