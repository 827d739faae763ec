package sky

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Projection selects how the sphere is flattened onto the map plane.
type Projection string

const (
	// TAN is the gnomonic projection used by most IACT sky maps.
	TAN Projection = "TAN"
	// CAR is plate carrée around the map centre.
	CAR Projection = "CAR"
)

// ParseProjection accepts TAN or CAR in any case. Empty means TAN.
func ParseProjection(s string) (Projection, error) {
	switch Projection(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TAN:
		return TAN, nil
	case CAR:
		return CAR, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProjection, s)
}

// Geometry describes a rectangular pixel grid of NX by NY square pixels of
// BinSize degrees, centred on Center.
type Geometry struct {
	Center     Coord
	BinSize    float64
	NX, NY     int
	Projection Projection
}

// NewGeometry builds a square geometry width degrees across.
func NewGeometry(center Coord, width, binSize float64, proj Projection) (Geometry, error) {
	if binSize <= 0 || width <= 0 {
		return Geometry{}, fmt.Errorf("%w: width %g, bin size %g", ErrInvalidGeometry, width, binSize)
	}
	n := int(math.Ceil(width/binSize - 1e-9))
	g := Geometry{
		Center:     center,
		BinSize:    binSize,
		NX:         n,
		NY:         n,
		Projection: proj,
	}
	return g, g.Validate()
}

// Validate checks the grid dimensions and projection.
func (g Geometry) Validate() error {
	if g.BinSize <= 0 || g.NX <= 0 || g.NY <= 0 {
		return fmt.Errorf("%w: %dx%d pixels of %g deg", ErrInvalidGeometry, g.NX, g.NY, g.BinSize)
	}
	switch g.Projection {
	case TAN, CAR:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidGeometry, ErrUnknownProjection, g.Projection)
	}
	if g.Projection == TAN && (float64(g.NX)*g.BinSize >= 180 || float64(g.NY)*g.BinSize >= 180) {
		return fmt.Errorf("%w: TAN map wider than 180 deg", ErrInvalidGeometry)
	}
	return nil
}

// Frame is the frame of the map centre; every projected coordinate must
// share it.
func (g Geometry) Frame() Frame {
	return g.Center.frame()
}

// Extent returns the map edges as projected offsets in degrees.
func (g Geometry) Extent() (xmin, xmax, ymin, ymax float64) {
	hx := float64(g.NX) * g.BinSize / 2
	hy := float64(g.NY) * g.BinSize / 2
	return -hx, hx, -hy, hy
}

// Project returns the offset of c from the map centre in degrees, x towards
// increasing longitude (east) and y towards north.
func (g Geometry) Project(c Coord) (r2.Vec, error) {
	if err := g.Center.checkFrame(c); err != nil {
		return r2.Vec{}, err
	}
	switch g.Projection {
	case CAR:
		return r2.Vec{X: wrap180(c.Lon - g.Center.Lon), Y: c.Lat - g.Center.Lat}, nil
	case TAN:
		center, v := g.Center.Vec(), c.Vec()
		d := r3.Dot(v, center)
		if d <= 1e-12 {
			return r2.Vec{}, fmt.Errorf("%w: %s is %.1f deg from map centre", ErrOutsideProjection, c, separation(g.Center, c))
		}
		east, north := tangentBasis(center)
		return r2.Vec{
			X: deg(r3.Dot(v, east) / d),
			Y: deg(r3.Dot(v, north) / d),
		}, nil
	}
	return r2.Vec{}, fmt.Errorf("%w: %q", ErrUnknownProjection, g.Projection)
}

// ProjectAll projects every coordinate, failing on the first one that
// cannot be placed on the map plane.
func (g Geometry) ProjectAll(coords []Coord) ([]r2.Vec, error) {
	out := make([]r2.Vec, len(coords))
	for i, c := range coords {
		p, err := g.Project(c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Pixel returns the column and row holding c. ok is false when c projects
// outside the grid.
func (g Geometry) Pixel(c Coord) (col, row int, ok bool, err error) {
	p, err := g.Project(c)
	if err != nil {
		return 0, 0, false, err
	}
	col = int(math.Floor(p.X/g.BinSize + float64(g.NX)/2))
	row = int(math.Floor(p.Y/g.BinSize + float64(g.NY)/2))
	ok = col >= 0 && col < g.NX && row >= 0 && row < g.NY
	return col, row, ok, nil
}

// PixelCenter returns the projected offset of the centre of pixel (col, row).
func (g Geometry) PixelCenter(col, row int) r2.Vec {
	return r2.Vec{
		X: (float64(col) + 0.5 - float64(g.NX)/2) * g.BinSize,
		Y: (float64(row) + 0.5 - float64(g.NY)/2) * g.BinSize,
	}
}

// Fill bins coords into a counts map. Coordinates off the grid, including
// those the projection cannot reach, are counted in Outside. A coordinate
// in another frame is an error.
func (g Geometry) Fill(coords []Coord) (*Counts, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	counts := &Counts{Geometry: g, data: make([]float64, g.NX*g.NY)}
	for i, c := range coords {
		col, row, ok, err := g.Pixel(c)
		switch {
		case err != nil && !isOutside(err):
			return nil, fmt.Errorf("event %d: %w", i, err)
		case err != nil || !ok:
			counts.Outside++
		default:
			counts.data[row*g.NX+col]++
			counts.Binned++
		}
	}
	return counts, nil
}

// tangentBasis returns the east and north unit vectors of the plane tangent
// to the sphere at center.
func tangentBasis(center r3.Vec) (east, north r3.Vec) {
	east = r3.Cross(r3.Vec{Z: 1}, center)
	if r3.Norm(east) < 1e-12 {
		// At a pole east is undefined; pick the +Y meridian.
		east = r3.Vec{Y: 1}
	}
	east = r3.Unit(east)
	north = r3.Cross(center, east)
	return east, north
}
