// Package flux holds the precomputed flux products that the curve plotters
// draw: light curves, SED flux points and spectral models.
package flux

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Energy is a photon energy stored in TeV.
type Energy float64

const (
	MeV Energy = 1e-6
	GeV Energy = 1e-3
	TeV Energy = 1
)

// TeV returns e in TeV.
func (e Energy) TeV() float64 { return float64(e) }

// GeV returns e in GeV.
func (e Energy) GeV() float64 { return float64(e / GeV) }

func (e Energy) String() string {
	if e < TeV {
		return strconv.FormatFloat(e.GeV(), 'g', -1, 64) + " GeV"
	}
	return strconv.FormatFloat(e.TeV(), 'g', -1, 64) + " TeV"
}

// SampleEnergies returns n log-spaced energies from eMin to eMax inclusive.
func SampleEnergies(eMin, eMax Energy, n int) ([]Energy, error) {
	if eMin <= 0 || eMax <= eMin || n < 2 {
		return nil, fmt.Errorf("%w: [%s, %s] with %d samples", ErrEnergyRange, eMin, eMax, n)
	}
	grid := floats.LogSpan(make([]float64, n), float64(eMin), float64(eMax))
	out := make([]Energy, n)
	for i, v := range grid {
		out[i] = Energy(v)
	}
	// LogSpan can miss the bounds by an ulp.
	out[0], out[n-1] = eMin, eMax
	return out, nil
}
