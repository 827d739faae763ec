package render

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/vg"

	"github.com/HamletTheHamster/gammaplot/internal/config"
)

// Style carries every colour and size the plotters use.
type Style struct {
	OnColor       color.Color
	OffColor      color.Color
	PointingColor color.Color
	SourceColor   color.Color
	ExcludedColor color.Color

	// MarkerSize is the marker diameter; LineWidth strokes region outlines
	// and model curves; EdgeWidth strokes hollow legend markers.
	MarkerSize vg.Length
	LineWidth  vg.Length
	EdgeWidth  vg.Length

	// Colormap is a ColorBrewer sequential palette name for counts maps.
	Colormap string

	BandAlpha   float64
	CurvePoints int

	// Width and Height size saved figures.
	Width  vg.Length
	Height vg.Length

	TitleSize  vg.Length
	LabelSize  vg.Length
	LegendSize vg.Length
}

// DefaultStyle reproduces the historical look of the overlay plots.
func DefaultStyle() Style {
	return Style{
		OnColor:       colornames.Crimson,
		OffColor:      colornames.Dodgerblue,
		PointingColor: colornames.Goldenrod,
		SourceColor:   colornames.Crimson,
		ExcludedColor: colornames.Black,
		MarkerSize:    vg.Points(14),
		LineWidth:     vg.Points(2),
		EdgeWidth:     vg.Points(1.5),
		Colormap:      "YlGnBu",
		BandAlpha:     0.4,
		CurvePoints:   100,
		Width:         8 * vg.Inch,
		Height:        8 * vg.Inch,
		TitleSize:     vg.Points(16),
		LabelSize:     vg.Points(12),
		LegendSize:    vg.Points(10),
	}
}

// StyleFromConfig resolves the configured colour names.
func StyleFromConfig(cfg *config.Config) (Style, error) {
	s := DefaultStyle()

	colors := []struct {
		name string
		dst  *color.Color
	}{
		{cfg.OnColor, &s.OnColor},
		{cfg.OffColor, &s.OffColor},
		{cfg.PointingColor, &s.PointingColor},
		{cfg.SourceColor, &s.SourceColor},
		{cfg.ExcludedColor, &s.ExcludedColor},
	}
	for _, c := range colors {
		if c.name == "" {
			continue
		}
		parsed, err := ParseColor(c.name)
		if err != nil {
			return Style{}, err
		}
		*c.dst = parsed
	}

	if cfg.MarkerSize > 0 {
		s.MarkerSize = vg.Points(cfg.MarkerSize)
	}
	if cfg.LineWidth > 0 {
		s.LineWidth = vg.Points(cfg.LineWidth)
	}
	if cfg.WidthIn > 0 && cfg.HeightIn > 0 {
		s.Width = vg.Length(cfg.WidthIn) * vg.Inch
		s.Height = vg.Length(cfg.HeightIn) * vg.Inch
	}
	if cfg.Colormap != "" {
		s.Colormap = cfg.Colormap
	}
	if cfg.BandAlpha > 0 {
		s.BandAlpha = cfg.BandAlpha
	}
	if cfg.CurvePoints > 1 {
		s.CurvePoints = cfg.CurvePoints
	}
	return s, nil
}

// ParseColor resolves an SVG colour name; "k" is accepted for black.
func ParseColor(name string) (color.Color, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "k" {
		n = "black"
	}
	c, ok := colornames.Map[n]
	if !ok {
		return nil, fmt.Errorf("unknown colour %q", name)
	}
	return c, nil
}

// withAlpha returns c with its opacity scaled by alpha. Values outside
// (0, 1] leave c opaque.
func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha <= 0 || alpha >= 1 {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*alpha + 0.5)
	return n
}
