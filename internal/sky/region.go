package sky

import "fmt"

// outlineVertices is the number of perimeter samples used when a circle is
// turned into a drawable polygon.
const outlineVertices = 128

// PointRegion marks a single position on the sky.
type PointRegion struct {
	Center Coord
}

// CircleRegion is a disk of Radius degrees around Center.
type CircleRegion struct {
	Center Coord
	Radius float64
}

func (r CircleRegion) String() string {
	return fmt.Sprintf("circle %s r=%.4f deg", r.Center, r.Radius)
}

// Contains reports whether c lies inside the disk. Coordinates in another
// frame are never contained.
func (r CircleRegion) Contains(c Coord) bool {
	if !r.Center.SameFrame(c) {
		return false
	}
	return separation(r.Center, c) <= r.Radius
}

// Outline samples the perimeter at n equal position-angle steps and closes
// the ring by repeating the first vertex. n < 3 uses the default sampling.
func (r CircleRegion) Outline(n int) []Coord {
	if n < 3 {
		n = outlineVertices
	}
	pts := make([]Coord, 0, n+1)
	for i := 0; i < n; i++ {
		pts = append(pts, Offset(r.Center, 360*float64(i)/float64(n), r.Radius))
	}
	return append(pts, pts[0])
}
