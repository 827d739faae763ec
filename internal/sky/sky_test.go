package sky_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/HamletTheHamster/gammaplot/internal/sky"
	. "github.com/smartystreets/goconvey/convey"
)

const tol = 1e-9

func TestSeparationAndOffset(t *testing.T) {
	Convey("Given two ICRS coordinates on the equator", t, func() {
		a := sky.NewCoord(10, 0)
		b := sky.NewCoord(13, 0)

		Convey("Their separation is the longitude difference", func() {
			sep, err := sky.Separation(a, b)
			So(err, ShouldBeNil)
			So(sep, ShouldAlmostEqual, 3, tol)
		})

		Convey("The position angle of an eastern point is 90 deg", func() {
			pa, err := sky.PositionAngle(a, b)
			So(err, ShouldBeNil)
			So(pa, ShouldAlmostEqual, 90, 1e-9)
		})

		Convey("Offset inverts position angle and separation", func() {
			c := sky.Offset(sky.NewCoord(83.63, 22.01), 37, 0.4)
			sep, _ := sky.Separation(sky.NewCoord(83.63, 22.01), c)
			pa, _ := sky.PositionAngle(sky.NewCoord(83.63, 22.01), c)
			So(sep, ShouldAlmostEqual, 0.4, 1e-9)
			So(pa, ShouldAlmostEqual, 37, 1e-7)
		})
	})

	Convey("Given coordinates in different frames", t, func() {
		a := sky.NewCoord(10, 0)
		b := sky.Coord{Lon: 10, Lat: 0, Frame: sky.Galactic}

		Convey("Separation fails with a frame mismatch", func() {
			_, err := sky.Separation(a, b)
			So(errors.Is(err, sky.ErrFrameMismatch), ShouldBeTrue)
		})
	})
}

func TestWobbleCenters(t *testing.T) {
	pointing := sky.NewCoord(83.633, 22.514)
	source := sky.NewCoord(83.633, 22.014)

	for _, n := range []int{1, 2, 3, 5, 7} {
		Convey(fmt.Sprintf("Given %d OFF regions around a source 0.5 deg from the pointing", n), t, func() {
			centers, err := sky.WobbleCenters(source, pointing, n)
			So(err, ShouldBeNil)

			Convey("It returns exactly the requested number of centres", func() {
				So(len(centers), ShouldEqual, n)
			})

			Convey("No centre coincides with the source", func() {
				for _, c := range centers {
					sep, _ := sky.Separation(c, source)
					So(sep, ShouldBeGreaterThan, 1e-3)
				}
			})

			Convey("Every centre keeps the wobble offset", func() {
				for _, c := range centers {
					sep, _ := sky.Separation(c, pointing)
					So(sep, ShouldAlmostEqual, 0.5, 1e-9)
				}
			})

			Convey("Centres are equally spaced around the pointing", func() {
				step := 360 / float64(n+1)
				pa0, _ := sky.PositionAngle(pointing, source)
				for i, c := range centers {
					pa, _ := sky.PositionAngle(pointing, c)
					want := math.Mod(pa0+float64(i+1)*step, 360)
					diff := math.Abs(math.Mod(pa-want+540, 360) - 180)
					So(diff, ShouldBeLessThan, 1e-6)
				}
				for i := 1; i < len(centers); i++ {
					pa1, _ := sky.PositionAngle(pointing, centers[i-1])
					pa2, _ := sky.PositionAngle(pointing, centers[i])
					d := math.Mod(pa2-pa1+360, 360)
					So(d, ShouldAlmostEqual, step, 1e-6)
				}
			})
		})
	}

	Convey("Given one OFF region", t, func() {
		centers, err := sky.WobbleCenters(source, pointing, 1)
		So(err, ShouldBeNil)

		Convey("It mirrors the source through the pointing", func() {
			So(centers[0].Lon, ShouldAlmostEqual, 83.633, 1e-6)
			So(centers[0].Lat, ShouldAlmostEqual, 23.014, 1e-6)
		})
	})

	Convey("Given invalid input", t, func() {
		Convey("Zero OFF regions is rejected", func() {
			_, err := sky.WobbleCenters(source, pointing, 0)
			So(errors.Is(err, sky.ErrInvalidOffCount), ShouldBeTrue)
		})

		Convey("A source on the pointing is rejected", func() {
			_, err := sky.WobbleCenters(pointing, pointing, 3)
			So(errors.Is(err, sky.ErrNoWobbleOffset), ShouldBeTrue)
		})

		Convey("A galactic pivot is rejected", func() {
			_, err := sky.WobbleCenters(source, sky.Coord{Lon: 184.55, Lat: -5.78, Frame: sky.Galactic}, 3)
			So(errors.Is(err, sky.ErrFrameMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a finder and an ON circle", t, func() {
		on := sky.CircleRegion{Center: source, Radius: 0.11}
		offs, err := sky.WobbleFinder{NOffRegions: 3}.Run(on, pointing)
		So(err, ShouldBeNil)

		Convey("OFF regions inherit the ON radius", func() {
			So(len(offs), ShouldEqual, 3)
			for _, r := range offs {
				So(r.Radius, ShouldEqual, 0.11)
				So(r.Contains(source), ShouldBeFalse)
			}
		})
	})
}

func TestGeometry(t *testing.T) {
	Convey("Given a 2 deg TAN geometry with 0.02 deg pixels", t, func() {
		center := sky.NewCoord(83.633, 22.014)
		g, err := sky.NewGeometry(center, 2, 0.02, sky.TAN)
		So(err, ShouldBeNil)
		So(g.NX, ShouldEqual, 100)
		So(g.NY, ShouldEqual, 100)

		Convey("The centre projects onto the origin", func() {
			p, err := g.Project(center)
			So(err, ShouldBeNil)
			So(p.X, ShouldAlmostEqual, 0, tol)
			So(p.Y, ShouldAlmostEqual, 0, tol)
		})

		Convey("North maps to positive y and east to positive x", func() {
			n, _ := g.Project(sky.Offset(center, 0, 0.5))
			e, _ := g.Project(sky.Offset(center, 90, 0.5))
			So(n.Y, ShouldBeGreaterThan, 0.49)
			So(math.Abs(n.X), ShouldBeLessThan, 1e-9)
			So(e.X, ShouldBeGreaterThan, 0.49)
		})

		Convey("Fill bins events and counts those off the map", func() {
			events := []sky.Coord{
				center,
				center,
				sky.Offset(center, 45, 0.3),
				sky.Offset(center, 0, 5),
				sky.NewCoord(263.633, -22.014),
			}
			counts, err := g.Fill(events)
			So(err, ShouldBeNil)
			So(counts.Binned, ShouldEqual, 3)
			So(counts.Outside, ShouldEqual, 2)
			So(counts.Max(), ShouldEqual, 2)
			cols, rows := counts.Dims()
			So(cols, ShouldEqual, 100)
			So(rows, ShouldEqual, 100)
		})

		Convey("Fill rejects events in another frame", func() {
			_, err := g.Fill([]sky.Coord{{Lon: 1, Lat: 1, Frame: sky.Galactic}})
			So(errors.Is(err, sky.ErrFrameMismatch), ShouldBeTrue)
		})

		Convey("Projecting the antipode fails", func() {
			_, err := g.Project(sky.NewCoord(263.633, -22.014))
			So(errors.Is(err, sky.ErrOutsideProjection), ShouldBeTrue)
		})
	})

	Convey("Given invalid geometries", t, func() {
		_, err := sky.NewGeometry(sky.NewCoord(0, 0), 0, 0.02, sky.TAN)
		So(errors.Is(err, sky.ErrInvalidGeometry), ShouldBeTrue)

		_, err = sky.NewGeometry(sky.NewCoord(0, 0), 2, 0.02, sky.Projection("AIT"))
		So(errors.Is(err, sky.ErrInvalidGeometry), ShouldBeTrue)
	})

	Convey("Given a CAR geometry straddling longitude zero", t, func() {
		g, err := sky.NewGeometry(sky.NewCoord(0.5, 0), 4, 0.1, sky.CAR)
		So(err, ShouldBeNil)

		Convey("Longitudes wrap across 360", func() {
			p, err := g.Project(sky.NewCoord(359.5, 0))
			So(err, ShouldBeNil)
			So(p.X, ShouldAlmostEqual, -1, 1e-9)
		})
	})
}

func TestCircleOutline(t *testing.T) {
	Convey("Given a circle", t, func() {
		c := sky.CircleRegion{Center: sky.NewCoord(120, -30), Radius: 0.7}

		Convey("Its outline is closed and every vertex sits on the radius", func() {
			pts := c.Outline(36)
			So(len(pts), ShouldEqual, 37)
			So(pts[0], ShouldResemble, pts[36])
			for _, p := range pts {
				sep, _ := sky.Separation(c.Center, p)
				So(sep, ShouldAlmostEqual, 0.7, 1e-9)
			}
		})
	})
}
