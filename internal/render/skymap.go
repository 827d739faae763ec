package render

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/gammaplot/internal/observation"
	"github.com/HamletTheHamster/gammaplot/internal/sky"
	"github.com/HamletTheHamster/gammaplot/pkg/logger"
	"github.com/HamletTheHamster/gammaplot/pkg/metrics"
)

// Overlay describes one ON/OFF/exclusion skymap.
type Overlay struct {
	Observation *observation.Observation
	Geometry    sky.Geometry

	Source          sky.Coord
	ExclusionCenter sky.Coord
	ExclusionRadius float64
	NOffRegions     int

	SourceName         string
	ExcludedSourceName string

	// Show also sends the layout to the renderer's previewer.
	Show bool
}

// OverlayLayout is everything the overlay draws, computed without drawing.
type OverlayLayout struct {
	RunID        int64
	NOffRegions  int
	RadMax       float64
	Counts       *sky.Counts
	WobbleRadius float64

	Pointing       sky.PointRegion
	Wobble         sky.CircleRegion
	On             sky.CircleRegion
	Off            []sky.CircleRegion
	Source         sky.PointRegion
	ExcludedSource sky.PointRegion
	Exclusion      sky.CircleRegion
}

// OverlayFileName returns the base name, without extension, of an overlay
// figure.
func OverlayFileName(runID int64, radMax float64, n int) string {
	return fmt.Sprintf("run_%d_theta_max_%s_n_off_regions_%d", runID, formatReal(radMax), n)
}

// formatReal prints v in its shortest form, keeping a ".0" on whole
// numbers so 1 and 1.0 name different inputs.
func formatReal(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// OverlayTitle returns the figure title of an overlay.
func OverlayTitle(runID int64, n int) string {
	return fmt.Sprintf("run %d, %d off regions", runID, n)
}

// BuildOverlay computes the counts map and every region of the overlay.
func BuildOverlay(o Overlay) (*OverlayLayout, error) {
	obs := o.Observation
	if obs == nil {
		return nil, fmt.Errorf("%w: no observation", observation.ErrInvalidObservation)
	}
	wrap := func(err error) error {
		return fmt.Errorf("skymap run %d (n_off=%d): %w", obs.ID, o.NOffRegions, err)
	}

	if err := o.Geometry.Validate(); err != nil {
		return nil, wrap(err)
	}
	if o.ExclusionRadius < 0 {
		return nil, wrap(fmt.Errorf("%w: exclusion radius %g", sky.ErrInvalidGeometry, o.ExclusionRadius))
	}
	radMax, err := obs.RadMax()
	if err != nil {
		return nil, wrap(err)
	}
	for _, c := range []sky.Coord{obs.Pointing, o.Source, o.ExclusionCenter} {
		if !c.SameFrame(o.Geometry.Center) {
			return nil, wrap(fmt.Errorf("%w: %s against %s map", sky.ErrFrameMismatch, c, o.Geometry.Frame()))
		}
	}

	counts, err := o.Geometry.Fill(obs.EventCoords())
	if err != nil {
		return nil, wrap(err)
	}

	wobbleRadius, err := sky.Separation(obs.Pointing, o.Source)
	if err != nil {
		return nil, wrap(err)
	}
	on := sky.CircleRegion{Center: o.Source, Radius: radMax}
	off, err := sky.WobbleFinder{NOffRegions: o.NOffRegions}.Run(on, obs.Pointing)
	if err != nil {
		return nil, wrap(err)
	}

	return &OverlayLayout{
		RunID:          obs.ID,
		NOffRegions:    o.NOffRegions,
		RadMax:         radMax,
		Counts:         counts,
		WobbleRadius:   wobbleRadius,
		Pointing:       sky.PointRegion{Center: obs.Pointing},
		Wobble:         sky.CircleRegion{Center: obs.Pointing, Radius: wobbleRadius},
		On:             on,
		Off:            off,
		Source:         sky.PointRegion{Center: o.Source},
		ExcludedSource: sky.PointRegion{Center: o.ExclusionCenter},
		Exclusion:      sky.CircleRegion{Center: o.ExclusionCenter, Radius: o.ExclusionRadius},
	}, nil
}

// SkymapOverlay draws the counts map with the ON, OFF and exclusion regions
// and saves it. It returns the path of the png file.
func (r *Renderer) SkymapOverlay(ctx context.Context, o Overlay) (string, error) {
	start := time.Now()
	path, err := r.skymapOverlay(ctx, o)
	r.metrics.ObserveRender(metrics.KindSkymap, time.Since(start), err)
	return path, err
}

func (r *Renderer) skymapOverlay(ctx context.Context, o Overlay) (string, error) {
	var runID int64
	if o.Observation != nil {
		runID = o.Observation.ID
	}
	if o.Show && r.previewer == nil {
		return "", fmt.Errorf("preview run %d: %w", runID, ErrNoPreviewer)
	}
	log := r.log.With(logger.Int64("run", runID), logger.String("render_id", uuid.NewString()))
	log.Info(ctx, "making ON and OFF regions skymap plot", logger.Int("n_off_regions", o.NOffRegions))

	layout, err := BuildOverlay(o)
	if err != nil {
		return "", err
	}
	r.metrics.ObserveCounts(layout.Counts.Binned, layout.Counts.Outside)
	log.Debug(ctx, "counts map filled",
		logger.Int("binned", layout.Counts.Binned),
		logger.Int("outside", layout.Counts.Outside),
		logger.Float64("rad_max", layout.RadMax))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, err := r.DrawOverlay(layout, o.SourceName, o.ExcludedSourceName)
	if err != nil {
		return "", fmt.Errorf("skymap run %d (n_off=%d): %w", layout.RunID, layout.NOffRegions, err)
	}

	path, err := r.Save(p, OverlayFileName(layout.RunID, layout.RadMax, layout.NOffRegions))
	if err != nil {
		return "", fmt.Errorf("skymap run %d (n_off=%d): %w", layout.RunID, layout.NOffRegions, err)
	}
	log.Info(ctx, "skymap saved", logger.String("path", path))

	if o.Show {
		groups, err := PreviewGroups(layout)
		if err != nil {
			return path, err
		}
		if err := r.previewer.Preview(OverlayTitle(layout.RunID, layout.NOffRegions), groups); err != nil {
			return path, fmt.Errorf("preview run %d: %w", layout.RunID, err)
		}
	}
	return path, nil
}

// DrawOverlay renders layout onto a new plot. East is to the left, as on
// the sky.
func (r *Renderer) DrawOverlay(layout *OverlayLayout, sourceName, excludedName string) (*plot.Plot, error) {
	s := r.style
	g := layout.Counts.Geometry
	lonLabel, latLabel := axisLabels(g.Frame())
	p := s.NewPlot(OverlayTitle(layout.RunID, layout.NOffRegions), lonLabel, latLabel)
	p.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	pal, err := brewer.GetPalette(brewer.TypeSequential, s.Colormap, 9)
	if err != nil {
		return nil, fmt.Errorf("colormap %q: %w", s.Colormap, err)
	}
	heat := plotter.NewHeatMap(layout.Counts, pal)
	heat.Min = 0
	heat.Max = layout.Counts.Max()
	if heat.Max <= heat.Min {
		heat.Max = heat.Min + 1
	}
	p.Add(heat)

	pointing, err := r.marker(g, layout.Pointing.Center, s.PointingColor, draw.PlusGlyph{}, s.MarkerSize/2-vg.Points(1))
	if err != nil {
		return nil, err
	}
	wobble, err := r.circle(g, layout.Wobble, s.PointingColor, true)
	if err != nil {
		return nil, err
	}
	on, err := r.circle(g, layout.On, s.OnColor, false)
	if err != nil {
		return nil, err
	}
	source, err := r.marker(g, layout.Source.Center, s.SourceColor, StarGlyph{Filled: true}, s.MarkerSize/2)
	if err != nil {
		return nil, err
	}
	excludedSource, err := r.marker(g, layout.ExcludedSource.Center, s.ExcludedColor, StarGlyph{Filled: true}, s.MarkerSize/2)
	if err != nil {
		return nil, err
	}
	exclusion, err := r.circle(g, layout.Exclusion, s.ExcludedColor, false)
	if err != nil {
		return nil, err
	}
	p.Add(pointing, wobble, on, source, excludedSource, exclusion)

	for _, region := range layout.Off {
		off, err := r.circle(g, region, s.OffColor, false)
		if err != nil {
			return nil, err
		}
		p.Add(off)
	}

	// Regions reaching past the map would widen the axes; pin them last.
	xmin, xmax, ymin, ymax := g.Extent()
	top, right, err := encloseAxes(p, xmin, xmax, ymin, ymax)
	if err != nil {
		return nil, err
	}
	p.Add(top, right)

	AttachOverlayLegend(p, s, sourceName, excludedName)
	return p, nil
}

func (r *Renderer) circle(g sky.Geometry, region sky.CircleRegion, c color.Color, dashed bool) (*plotter.Line, error) {
	pts, err := g.ProjectAll(region.Outline(0))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", region, err)
	}
	line, err := plotter.NewLine(vecsToGroup(region.String(), "lines", pts).XYs())
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = r.style.LineWidth
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	}
	return line, nil
}

func (r *Renderer) marker(g sky.Geometry, at sky.Coord, c color.Color, glyph draw.GlyphDrawer, radius vg.Length) (*plotter.Scatter, error) {
	pt, err := g.Project(at)
	if err != nil {
		return nil, err
	}
	sc, err := plotter.NewScatter(plotter.XYs{{X: pt.X, Y: pt.Y}})
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = radius
	sc.GlyphStyle.Shape = glyph
	return sc, nil
}

// PreviewGroups flattens the overlay regions into projected point groups.
func PreviewGroups(layout *OverlayLayout) ([]PointGroup, error) {
	g := layout.Counts.Geometry
	circles := []struct {
		name   string
		region sky.CircleRegion
	}{
		{LabelOnRegion, layout.On},
		{LabelExcludedRegion, layout.Exclusion},
	}
	for i, off := range layout.Off {
		circles = append(circles, struct {
			name   string
			region sky.CircleRegion
		}{fmt.Sprintf("off %d", i+1), off})
	}

	groups := make([]PointGroup, 0, len(circles)+1)
	for _, c := range circles {
		pts, err := g.ProjectAll(c.region.Outline(0))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.region, err)
		}
		groups = append(groups, vecsToGroup(c.name, "lines", pts))
	}
	pointing, err := g.Project(layout.Pointing.Center)
	if err != nil {
		return nil, err
	}
	groups = append(groups, vecsToGroup(LabelPointing, "points", []r2.Vec{pointing}))
	return groups, nil
}

func vecsToGroup(name, style string, vs []r2.Vec) PointGroup {
	g := PointGroup{Name: name, Style: style, X: make([]float64, len(vs)), Y: make([]float64, len(vs))}
	for i, v := range vs {
		g.X[i], g.Y[i] = v.X, v.Y
	}
	return g
}

func axisLabels(f sky.Frame) (lon, lat string) {
	if f == sky.Galactic {
		return "Galactic Longitude offset (deg)", "Galactic Latitude offset (deg)"
	}
	return "Right Ascension offset (deg)", "Declination offset (deg)"
}
