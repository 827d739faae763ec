package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/gammaplot/internal/flux"
)

const (
	lightCurveMarkerRadius = 2.5
	errorCapWidth          = 6
)

// LightCurveLayers reports what PlotLightCurve drew.
type LightCurveLayers struct {
	Detections  []int
	UpperLimits []int
	// Skipped holds rows of either subset whose time or value is not finite.
	Skipped   []int
	BarLength float64
}

// NewLightCurvePlot returns an empty plot labelled for light curves.
func (s Style) NewLightCurvePlot(title string) *plot.Plot {
	return s.NewPlot(title, "Time / MJD", "Flux / (cm^-2 s^-1)")
}

// PlotLightCurve draws lc onto p with the default style.
func PlotLightCurve(p *plot.Plot, lc flux.LightCurve, c color.Color, label string, alpha float64) (LightCurveLayers, error) {
	return DefaultStyle().PlotLightCurve(p, lc, c, label, alpha)
}

// PlotLightCurve draws the detections of lc as points with time and flux
// error bars, and the upper limits as downward arrows hanging from the
// limit. Only the detections carry label. alpha scales the opacity of c.
func (s Style) PlotLightCurve(p *plot.Plot, lc flux.LightCurve, c color.Color, label string, alpha float64) (LightCurveLayers, error) {
	det, ul := lc.Partition()
	layers := LightCurveLayers{
		Detections:  det,
		UpperLimits: ul,
		BarLength:   lc.UpperLimitBarLength(),
	}
	col := withAlpha(c, alpha)

	var (
		pts  plotter.XYs
		xerr plotter.XErrors
		yerr plotter.YErrors
	)
	for _, i := range det {
		row := lc.Rows[i]
		if !finite(row.TimeMid, row.Flux) {
			layers.Skipped = append(layers.Skipped, i)
			continue
		}
		hw, fe := orZero(row.TimeHalfWidth), orZero(row.FluxErr)
		pts = append(pts, plotter.XY{X: row.TimeMid, Y: row.Flux})
		xerr = append(xerr, struct{ Low, High float64 }{hw, hw})
		yerr = append(yerr, struct{ Low, High float64 }{fe, fe})
	}
	if len(pts) > 0 {
		if err := s.addDetections(p, pts, xerr, yerr, col, label); err != nil {
			return layers, err
		}
	}

	var (
		limits plotter.XYs
		bars   plotter.YErrors
		heads  plotter.XYs
	)
	for _, i := range ul {
		row := lc.Rows[i]
		if !finite(row.TimeMid, row.FluxUL) {
			layers.Skipped = append(layers.Skipped, i)
			continue
		}
		limits = append(limits, plotter.XY{X: row.TimeMid, Y: row.FluxUL})
		bars = append(bars, struct{ Low, High float64 }{layers.BarLength, 0})
		heads = append(heads, plotter.XY{X: row.TimeMid, Y: row.FluxUL - layers.BarLength})
	}
	if len(limits) > 0 {
		if err := addUpperLimits(p, limits, bars, heads, col); err != nil {
			return layers, err
		}
	}
	return layers, nil
}

func (s Style) addDetections(p *plot.Plot, pts plotter.XYs, xerr plotter.XErrors, yerr plotter.YErrors, col color.Color, label string) error {
	xBars, err := plotter.NewXErrorBars(struct {
		plotter.XYs
		plotter.XErrors
	}{pts, xerr})
	if err != nil {
		return err
	}
	xBars.LineStyle.Color = col
	xBars.CapWidth = 0

	yBars, err := plotter.NewYErrorBars(struct {
		plotter.XYs
		plotter.YErrors
	}{pts, yerr})
	if err != nil {
		return err
	}
	yBars.LineStyle.Color = col
	yBars.CapWidth = 0

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = col
	sc.GlyphStyle.Radius = vg.Points(lightCurveMarkerRadius)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(xBars, yBars, sc)
	if label != "" {
		p.Legend.Add(label, sc)
	}
	return nil
}

func addUpperLimits(p *plot.Plot, limits plotter.XYs, bars plotter.YErrors, heads plotter.XYs, col color.Color) error {
	yBars, err := plotter.NewYErrorBars(struct {
		plotter.XYs
		plotter.YErrors
	}{limits, bars})
	if err != nil {
		return err
	}
	yBars.LineStyle.Color = col
	yBars.CapWidth = vg.Points(errorCapWidth)

	arrows, err := plotter.NewScatter(heads)
	if err != nil {
		return err
	}
	arrows.GlyphStyle.Color = col
	arrows.GlyphStyle.Radius = vg.Points(3)
	arrows.GlyphStyle.Shape = DownArrowGlyph{}

	p.Add(yBars, arrows)
	return nil
}

// LightCurveGroups returns the drawable detections and upper limits of lc
// as preview point groups.
func LightCurveGroups(label string, lc flux.LightCurve) []PointGroup {
	det, ul := lc.Partition()
	detections := PointGroup{Name: label, Style: "points"}
	for _, i := range det {
		row := lc.Rows[i]
		if finite(row.TimeMid, row.Flux) {
			detections.X = append(detections.X, row.TimeMid)
			detections.Y = append(detections.Y, row.Flux)
		}
	}
	limits := PointGroup{Name: label + " UL", Style: "points"}
	for _, i := range ul {
		row := lc.Rows[i]
		if finite(row.TimeMid, row.FluxUL) {
			limits.X = append(limits.X, row.TimeMid)
			limits.Y = append(limits.Y, row.FluxUL)
		}
	}
	return []PointGroup{detections, limits}
}
