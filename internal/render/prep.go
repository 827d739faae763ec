package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const axisLineWidth = 1.5

// NewPlot returns a plot with the house fonts, axis widths and legend
// placement applied.
func (s Style) NewPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = color.White
	p.Title.Text = title
	p.Title.TextStyle.Font.Typeface = "liberation"
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = s.TitleSize

	p.X.Label.Text = xlabel
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = s.LabelSize
	p.X.LineStyle.Width = vg.Points(axisLineWidth)
	p.X.Tick.LineStyle.Width = vg.Points(axisLineWidth)
	p.X.Tick.Label.Font.Variant = "Sans"

	p.Y.Label.Text = ylabel
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = s.LabelSize
	p.Y.LineStyle.Width = vg.Points(axisLineWidth)
	p.Y.Tick.LineStyle.Width = vg.Points(axisLineWidth)
	p.Y.Tick.Label.Font.Variant = "Sans"

	p.Legend.TextStyle.Font.Variant = "Sans"
	p.Legend.TextStyle.Font.Size = s.LegendSize
	p.Legend.Top = true
	p.Legend.Padding = vg.Points(4)
	p.Legend.ThumbnailWidth = vg.Points(20)
	return p
}

// encloseAxes fixes the axis ranges and returns the top and right borders
// that close the frame.
func encloseAxes(p *plot.Plot, xmin, xmax, ymin, ymax float64) (top, right *plotter.Line, err error) {
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax

	top, err = plotter.NewLine(plotter.XYs{{X: xmin, Y: ymax}, {X: xmax, Y: ymax}})
	if err != nil {
		return nil, nil, err
	}
	top.LineStyle.Width = vg.Points(axisLineWidth)

	edge := xmax
	if _, inverted := p.X.Scale.(plot.InvertedScale); inverted {
		edge = xmin
	}
	right, err = plotter.NewLine(plotter.XYs{{X: edge, Y: ymin}, {X: edge, Y: ymax}})
	if err != nil {
		return nil, nil, err
	}
	right.LineStyle.Width = vg.Points(axisLineWidth)
	return top, right, nil
}

// buildData zips xs and ys, dropping the tail of the longer slice.
func buildData(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, min(len(xs), len(ys)))
	for i := range pts {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// orZero maps NaN and infinities to 0 so missing errors draw no bar.
func orZero(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}
