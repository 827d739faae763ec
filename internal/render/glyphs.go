package render

import (
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// StarGlyph is a five-pointed star, filled on the map and hollow in the
// legend.
type StarGlyph struct {
	Filled bool
	Width  vg.Length
}

// DrawGlyph implements the draw.GlyphDrawer interface.
func (g StarGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	pts := make([]vg.Point, 0, 11)
	for i := 0; i < 10; i++ {
		r := sty.Radius
		if i%2 == 1 {
			r = sty.Radius * 0.4
		}
		a := math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, vg.Point{
			X: pt.X + vg.Length(math.Cos(a))*r,
			Y: pt.Y + vg.Length(math.Sin(a))*r,
		})
	}
	if g.Filled {
		c.FillPolygon(sty.Color, pts)
		return
	}
	w := g.Width
	if w == 0 {
		w = vg.Points(1)
	}
	c.StrokeLines(draw.LineStyle{Color: sty.Color, Width: w}, append(pts, pts[0]))
}

// DownArrowGlyph is the arrow head drawn at the foot of an upper limit.
type DownArrowGlyph struct{}

// DrawGlyph implements the draw.GlyphDrawer interface.
func (DownArrowGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	c.FillPolygon(sty.Color, []vg.Point{
		{X: pt.X - r, Y: pt.Y + r},
		{X: pt.X + r, Y: pt.Y + r},
		{X: pt.X, Y: pt.Y - r},
	})
}

// glyphThumb is a legend thumbnail drawing a single glyph.
type glyphThumb struct {
	style draw.GlyphStyle
}

// Thumbnail implements the plot.Thumbnailer interface.
func (t glyphThumb) Thumbnail(c *draw.Canvas) {
	c.DrawGlyph(t.style, c.Center())
}

// RingGlyph is a hollow circle with a configurable edge width.
type RingGlyph struct {
	Width vg.Length
}

// DrawGlyph implements the draw.GlyphDrawer interface.
func (g RingGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.SetLineStyle(draw.LineStyle{Color: sty.Color, Width: g.Width})
	var p vg.Path
	p.Move(vg.Point{X: pt.X + sty.Radius, Y: pt.Y})
	p.Arc(pt, sty.Radius, 0, 2*math.Pi)
	p.Close()
	c.Stroke(p)
}
