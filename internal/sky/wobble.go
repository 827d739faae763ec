package sky

import "fmt"

// minWobbleOffset is the smallest pointing offset, in degrees, for which the
// rotation still moves the source.
const minWobbleOffset = 1e-6

// WobbleFinder places OFF regions by rotating the ON region about the
// pointing direction, the way the background makers of wobble-mode IACT
// analyses do.
type WobbleFinder struct {
	NOffRegions int
}

// Run returns the OFF regions for the ON region on. Every OFF region keeps
// the ON radius.
func (f WobbleFinder) Run(on CircleRegion, pointing Coord) ([]CircleRegion, error) {
	centers, err := WobbleCenters(on.Center, pointing, f.NOffRegions)
	if err != nil {
		return nil, err
	}
	regions := make([]CircleRegion, len(centers))
	for i, c := range centers {
		regions[i] = CircleRegion{Center: c, Radius: on.Radius}
	}
	return regions, nil
}

// WobbleStep is the angle between neighbouring regions when n OFF regions
// share the ring with the ON region.
func WobbleStep(n int) float64 {
	return 360 / float64(n+1)
}

// WobbleCenters returns the n OFF centres obtained by rotating source about
// pointing in steps of 360/(n+1) degrees. The zero step, which would give
// back the source itself, is skipped.
func WobbleCenters(source, pointing Coord, n int) ([]Coord, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOffCount, n)
	}
	sep, err := Separation(source, pointing)
	if err != nil {
		return nil, err
	}
	if sep < minWobbleOffset {
		return nil, fmt.Errorf("%w: offset %g deg", ErrNoWobbleOffset, sep)
	}
	step := WobbleStep(n)
	centers := make([]Coord, 0, n)
	for i := 1; i <= n; i++ {
		c, err := RotateAbout(source, pointing, float64(i)*step)
		if err != nil {
			return nil, err
		}
		centers = append(centers, c)
	}
	return centers, nil
}
