// Package render draws region overlays, light curves and SEDs with
// gonum/plot.
package render

import (
	"errors"
	"time"

	"gonum.org/v1/plot/plotter"

	"github.com/HamletTheHamster/gammaplot/pkg/logger"
)

// Recorder receives render metrics. *metrics.Manager satisfies it.
type Recorder interface {
	ObserveRender(kind string, d time.Duration, err error)
	ObserveCounts(binned, outside int)
}

// PointGroup is a named set of points handed to a Previewer. Style is a
// gnuplot style name such as "points" or "lines".
type PointGroup struct {
	Name  string
	Style string
	X, Y  []float64
}

// XYs pairs X and Y into plot points.
func (g PointGroup) XYs() plotter.XYs {
	return buildData(g.X, g.Y)
}

// ErrNoPreviewer is returned when a preview is requested from a renderer
// built without a Previewer.
var ErrNoPreviewer = errors.New("no previewer configured")

// Previewer shows a quick interactive view of a plot's geometry.
type Previewer interface {
	Preview(title string, groups []PointGroup) error
}

// Renderer draws and saves figures.
type Renderer struct {
	style       Style
	outputDir   string
	formats     []string
	thumbnailPx int
	log         logger.Logger
	metrics     Recorder
	previewer   Previewer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithOutputDir sets the directory figures are saved into.
func WithOutputDir(dir string) Option {
	return func(r *Renderer) { r.outputDir = dir }
}

// WithFormats sets the saved file formats. The first one is the format
// whose path is returned.
func WithFormats(formats ...string) Option {
	return func(r *Renderer) { r.formats = formats }
}

// WithThumbnail also writes a png thumbnail px pixels wide.
func WithThumbnail(px int) Option {
	return func(r *Renderer) { r.thumbnailPx = px }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m Recorder) Option {
	return func(r *Renderer) { r.metrics = m }
}

// WithPreviewer sets the previewer used by overlays with Show set.
func WithPreviewer(p Previewer) Option {
	return func(r *Renderer) { r.previewer = p }
}

// NewRenderer returns a renderer writing png files to the working directory
// unless configured otherwise.
func NewRenderer(style Style, opts ...Option) *Renderer {
	r := &Renderer{
		style:     style,
		outputDir: ".",
		formats:   []string{"png"},
		log:       logger.Nop(),
		metrics:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	if r.metrics == nil {
		r.metrics = nopRecorder{}
	}
	if len(r.formats) == 0 {
		r.formats = []string{"png"}
	}
	return r
}

// Style returns the renderer's style.
func (r *Renderer) Style() Style {
	return r.style
}

type nopRecorder struct{}

func (nopRecorder) ObserveRender(string, time.Duration, error) {}
func (nopRecorder) ObserveCounts(int, int)                     {}
