// Package observation models a single IACT run as consumed by the plotting
// helpers: run id, pointing, RAD_MAX values and the event list.
package observation

import (
	"fmt"
	"math"

	"github.com/HamletTheHamster/gammaplot/internal/flux"
	"github.com/HamletTheHamster/gammaplot/internal/sky"
)

// Event is one reconstructed gamma-ray candidate.
type Event struct {
	Coord  sky.Coord
	Energy flux.Energy
	Time   float64 // MJD
}

// Observation is read-only input; nothing in this module mutates it.
type Observation struct {
	ID       int64
	Pointing sky.Coord

	// RadMaxValues are the RAD_MAX cuts of the run, in degrees.
	RadMaxValues []float64
	Events       []Event
}

// RadMax returns the largest RAD_MAX value of the run. NaN entries are
// ignored; a run without any value is an error rather than zero.
func (o *Observation) RadMax() (float64, error) {
	largest := math.Inf(-1)
	for _, v := range o.RadMaxValues {
		if !math.IsNaN(v) && v > largest {
			largest = v
		}
	}
	if math.IsInf(largest, -1) {
		return 0, fmt.Errorf("run %d: %w", o.ID, ErrNoRadMax)
	}
	return largest, nil
}

// EventCoords returns the event directions in event order.
func (o *Observation) EventCoords() []sky.Coord {
	coords := make([]sky.Coord, len(o.Events))
	for i, e := range o.Events {
		coords[i] = e.Coord
	}
	return coords
}

// Validate checks that every event shares the pointing frame.
func (o *Observation) Validate() error {
	for i, e := range o.Events {
		if !e.Coord.SameFrame(o.Pointing) {
			return fmt.Errorf("%w: run %d event %d: %w", ErrInvalidObservation, o.ID, i, sky.ErrFrameMismatch)
		}
	}
	for i, v := range o.RadMaxValues {
		if v < 0 {
			return fmt.Errorf("%w: run %d rad_max[%d] = %g", ErrInvalidObservation, o.ID, i, v)
		}
	}
	return nil
}
