package render

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/gammaplot/internal/flux"
)

// Fixed SED axis labels. X is in GeV, Y in TeV cm^-2 s^-1.
const (
	SEDXLabel = "E / GeV"
	SEDYLabel = "E^2 dφ/dE / (TeV cm^-2 s^-1)"
)

const (
	sedMarkerRadius = 3
	// bandFloor keeps the lower band edge on a log axis when the error
	// exceeds the value.
	bandFloor = 1e-3
	// ulDrop is the factor an upper limit arrow descends on the log axis.
	ulDrop = 0.5
)

// SpectralModel is what an SED needs from a model. flux.Model satisfies it.
type SpectralModel interface {
	E2DNDE(e flux.Energy) float64
	E2DNDEError(e flux.Energy) float64
}

// SEDLayers reports what PlotSED drew, in plot units.
type SEDLayers struct {
	Curve plotter.XYs
	// Band is the closed outline of the uncertainty band, nil when the model
	// carries no uncertainty.
	Band plotter.XYs

	Measured    []int
	UpperLimits []int
	// Skipped holds flux points that cannot be placed on log axes.
	Skipped []int
}

// PlotSED draws model and points onto p with the default style.
func PlotSED(p *plot.Plot, model SpectralModel, points flux.FluxPoints, eMin, eMax flux.Energy, c color.Color, label string) (SEDLayers, error) {
	return DefaultStyle().PlotSED(p, model, points, eMin, eMax, c, label)
}

// PlotSED draws the dashed model curve and its uncertainty band between
// eMin and eMax, then every flux point regardless of those bounds. Model
// samples that are not positive are left out. Axes are switched to log-log
// and relabelled.
func (s Style) PlotSED(p *plot.Plot, model SpectralModel, points flux.FluxPoints, eMin, eMax flux.Energy, c color.Color, label string) (SEDLayers, error) {
	var layers SEDLayers

	energies, err := flux.SampleEnergies(eMin, eMax, s.CurvePoints)
	if err != nil {
		return layers, err
	}

	var (
		curve, upper, lower plotter.XYs
		banded              bool
	)
	for _, e := range energies {
		y := model.E2DNDE(e)
		if !finite(y) || y <= 0 {
			continue
		}
		sigma := orZero(model.E2DNDEError(e))
		if sigma > 0 {
			banded = true
		}
		x := e.GeV()
		curve = append(curve, plotter.XY{X: x, Y: y})
		upper = append(upper, plotter.XY{X: x, Y: y + sigma})
		lower = append(lower, plotter.XY{X: x, Y: math.Max(y-sigma, bandFloor*y)})
	}
	if len(curve) == 0 {
		return layers, fmt.Errorf("model E2DNDE is not positive anywhere in %s to %s", eMin, eMax)
	}
	slices.Reverse(lower)
	layers.Curve = curve

	if banded {
		layers.Band = append(append(plotter.XYs{}, upper...), lower...)
		band, err := plotter.NewPolygon(layers.Band)
		if err != nil {
			return layers, err
		}
		band.Color = withAlpha(c, s.BandAlpha)
		band.LineStyle.Width = 0
		p.Add(band)
	}

	line, err := plotter.NewLine(curve)
	if err != nil {
		return layers, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = s.LineWidth
	line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(line)

	if err := s.addFluxPoints(p, points, c, label, &layers); err != nil {
		return layers, err
	}

	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.X.Label.Text = SEDXLabel
	p.Y.Label.Text = SEDYLabel
	return layers, nil
}

func (s Style) addFluxPoints(p *plot.Plot, points flux.FluxPoints, c color.Color, label string, layers *SEDLayers) error {
	measured, uls := points.Partition()

	var (
		pts  plotter.XYs
		xerr plotter.XErrors
		yerr plotter.YErrors
	)
	for _, i := range measured {
		fp := points[i]
		x, lo, hi, ok := energyBin(fp)
		if !ok || !finite(fp.E2DNDE) || fp.E2DNDE <= 0 {
			layers.Skipped = append(layers.Skipped, i)
			continue
		}
		y := fp.E2DNDE
		errLow := math.Min(orZero(fp.ErrLow), (1-bandFloor)*y)
		pts = append(pts, plotter.XY{X: x, Y: y})
		xerr = append(xerr, struct{ Low, High float64 }{x - lo, hi - x})
		yerr = append(yerr, struct{ Low, High float64 }{errLow, orZero(fp.ErrHigh)})
		layers.Measured = append(layers.Measured, i)
	}
	if len(pts) > 0 {
		xBars, err := plotter.NewXErrorBars(struct {
			plotter.XYs
			plotter.XErrors
		}{pts, xerr})
		if err != nil {
			return err
		}
		xBars.LineStyle.Color = c
		xBars.CapWidth = 0

		yBars, err := plotter.NewYErrorBars(struct {
			plotter.XYs
			plotter.YErrors
		}{pts, yerr})
		if err != nil {
			return err
		}
		yBars.LineStyle.Color = c
		yBars.CapWidth = 0

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Radius = vg.Points(sedMarkerRadius)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(xBars, yBars, sc)
		if label != "" {
			p.Legend.Add(label, sc)
		}
	}

	var (
		limits plotter.XYs
		bars   plotter.YErrors
		heads  plotter.XYs
	)
	for _, i := range uls {
		fp := points[i]
		x, _, _, ok := energyBin(fp)
		if !ok || !finite(fp.UL) || fp.UL <= 0 {
			layers.Skipped = append(layers.Skipped, i)
			continue
		}
		limits = append(limits, plotter.XY{X: x, Y: fp.UL})
		bars = append(bars, struct{ Low, High float64 }{(1 - ulDrop) * fp.UL, 0})
		heads = append(heads, plotter.XY{X: x, Y: ulDrop * fp.UL})
		layers.UpperLimits = append(layers.UpperLimits, i)
	}
	if len(limits) > 0 {
		return addUpperLimits(p, limits, bars, heads, c)
	}
	return nil
}

// energyBin returns the point energy and its bin edges in GeV. Missing
// edges collapse onto the energy.
func energyBin(fp flux.FluxPoint) (x, lo, hi float64, ok bool) {
	x = fp.Energy.GeV()
	if !finite(x) || x <= 0 {
		return 0, 0, 0, false
	}
	lo, hi = fp.EnergyMin.GeV(), fp.EnergyMax.GeV()
	if !finite(lo) || lo <= 0 || lo > x {
		lo = x
	}
	if !finite(hi) || hi < x {
		hi = x
	}
	return x, lo, hi, true
}
