// Package preview shows plot geometry in a gnuplot window.
//
// The gnuplot backend is only linked into binaries built with the gnuplot
// tag. Other builds report ErrNoGnuplot from Preview.
package preview

import (
	"errors"
)

// ErrNoGnuplot is returned when gnuplot is not available.
var ErrNoGnuplot = errors.New("gnuplot not found")

// Gnuplot previews point groups with gnuplot.
type Gnuplot struct {
	// Persist keeps the window open after gnuplot exits.
	Persist bool
	Debug   bool
	// SaveTo, when set, also writes the preview to this file.
	SaveTo string
}

// New returns a persistent gnuplot previewer.
func New() *Gnuplot {
	return &Gnuplot{Persist: true}
}
