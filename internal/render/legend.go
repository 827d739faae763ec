package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Legend labels of the region overlay. The source entries take the caller's
// names.
const (
	LabelOnRegion       = "on region"
	LabelOffRegions     = "off regions"
	LabelPointing       = "pointing"
	LabelExcludedRegion = "excluded region"
)

// LegendEntry is one synthetic legend handle.
type LegendEntry struct {
	Label  string
	Color  color.Color
	Glyph  draw.GlyphDrawer
	Radius vg.Length
}

// OverlayLegendEntries lists the six overlay legend entries in display
// order.
func OverlayLegendEntries(s Style, sourceName, excludedName string) []LegendEntry {
	r := s.MarkerSize / 2
	ring := RingGlyph{Width: s.EdgeWidth}
	star := StarGlyph{Width: s.EdgeWidth}
	return []LegendEntry{
		{Label: LabelOnRegion, Color: s.OnColor, Glyph: ring, Radius: r},
		{Label: LabelOffRegions, Color: s.OffColor, Glyph: ring, Radius: r},
		{Label: LabelPointing, Color: s.PointingColor, Glyph: draw.PlusGlyph{}, Radius: r - vg.Points(1)},
		{Label: sourceName, Color: s.SourceColor, Glyph: star, Radius: r},
		{Label: excludedName, Color: s.ExcludedColor, Glyph: star, Radius: r},
		{Label: LabelExcludedRegion, Color: s.ExcludedColor, Glyph: ring, Radius: r},
	}
}

// AttachOverlayLegend adds the overlay legend to p. The entries describe
// what the overlay draws; none is tied to a plotted layer.
func AttachOverlayLegend(p *plot.Plot, s Style, sourceName, excludedName string) {
	for _, e := range OverlayLegendEntries(s, sourceName, excludedName) {
		p.Legend.Add(e.Label, glyphThumb{style: draw.GlyphStyle{
			Color:  e.Color,
			Radius: e.Radius,
			Shape:  e.Glyph,
		}})
	}
}
