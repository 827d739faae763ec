package flux

import "errors"

// Sentinel errors. Wrapped with context by the functions returning them.
var (
	ErrEnergyRange   = errors.New("invalid energy range")
	ErrTooFewPoints  = errors.New("too few flux points to fit")
	ErrUnknownModel  = errors.New("unknown spectral model")
	ErrUnknownUnit   = errors.New("unknown unit")
	ErrSingularFit   = errors.New("fit covariance is singular")
	ErrInvalidSeries = errors.New("invalid flux series")
)
