// Package sky holds the spherical geometry behind the sky map overlays:
// coordinates, circular regions, map geometries and the wobble rule that
// places OFF regions around the telescope pointing.
package sky

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frame names the celestial reference frame of a coordinate.
type Frame string

const (
	ICRS     Frame = "icrs"
	Galactic Frame = "galactic"
)

// ParseFrame accepts the frame names used in observation files. An empty
// name means ICRS.
func ParseFrame(s string) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "icrs", "radec", "fk5":
		return ICRS, nil
	case "galactic", "gal":
		return Galactic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFrame, s)
}

// Coord is a position on the sky in degrees.
type Coord struct {
	Lon   float64
	Lat   float64
	Frame Frame
}

// NewCoord returns an ICRS coordinate.
func NewCoord(lon, lat float64) Coord {
	return Coord{Lon: lon, Lat: lat, Frame: ICRS}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%.4f, %.4f) %s", c.Lon, c.Lat, c.frame())
}

func (c Coord) frame() Frame {
	if c.Frame == "" {
		return ICRS
	}
	return c.Frame
}

// SameFrame reports whether both coordinates live in the same frame.
func (c Coord) SameFrame(o Coord) bool {
	return c.frame() == o.frame()
}

func (c Coord) checkFrame(o Coord) error {
	if !c.SameFrame(o) {
		return fmt.Errorf("%w: %s vs %s", ErrFrameMismatch, c.frame(), o.frame())
	}
	return nil
}

// Vec returns the unit vector pointing at c.
func (c Coord) Vec() r3.Vec {
	lon, lat := rad(c.Lon), rad(c.Lat)
	return r3.Vec{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// FromVec converts a (not necessarily unit) vector back into a coordinate
// in frame f. Longitudes are wrapped into [0, 360).
func FromVec(v r3.Vec, f Frame) Coord {
	lon := deg(math.Atan2(v.Y, v.X))
	lat := deg(math.Atan2(v.Z, math.Hypot(v.X, v.Y)))
	return Coord{Lon: wrap360(lon), Lat: lat, Frame: f}
}

// Separation returns the angular distance between a and b in degrees.
func Separation(a, b Coord) (float64, error) {
	if err := a.checkFrame(b); err != nil {
		return 0, err
	}
	return separation(a, b), nil
}

func separation(a, b Coord) float64 {
	va, vb := a.Vec(), b.Vec()
	return deg(math.Atan2(r3.Norm(r3.Cross(va, vb)), r3.Dot(va, vb)))
}

// PositionAngle returns the position angle of to as seen from from,
// measured east of north, in [0, 360).
func PositionAngle(from, to Coord) (float64, error) {
	if err := from.checkFrame(to); err != nil {
		return 0, err
	}
	return positionAngle(from, to), nil
}

func positionAngle(from, to Coord) float64 {
	lat1, lat2 := rad(from.Lat), rad(to.Lat)
	dlon := rad(to.Lon - from.Lon)
	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	return wrap360(deg(math.Atan2(y, x)))
}

// Offset returns the point sep degrees away from c at position angle pa.
func Offset(c Coord, pa, sep float64) Coord {
	lat1, lon1 := rad(c.Lat), rad(c.Lon)
	p, d := rad(pa), rad(sep)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(p))
	lon2 := lon1 + math.Atan2(math.Sin(p)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))
	return Coord{Lon: wrap360(deg(lon2)), Lat: deg(lat2), Frame: c.frame()}
}

// RotateAbout rotates point about the axis through pivot so that its
// position angle seen from pivot grows by angle degrees. The distance to
// the pivot is preserved.
func RotateAbout(point, pivot Coord, angle float64) (Coord, error) {
	if err := point.checkFrame(pivot); err != nil {
		return Coord{}, err
	}
	// A right-handed turn about the outward axis moves position angles
	// westwards, hence the sign.
	rot := r3.NewRotation(-rad(angle), pivot.Vec())
	return FromVec(rot.Rotate(point.Vec()), point.frame()), nil
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

func wrap360(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// wrap180 maps an angle difference into [-180, 180).
func wrap180(d float64) float64 {
	d = wrap360(d + 180)
	return d - 180
}
