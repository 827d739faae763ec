//go:build !gnuplot

package preview

import (
	"fmt"

	"github.com/HamletTheHamster/gammaplot/internal/render"
)

// Preview implements render.Previewer. This build carries no gnuplot
// backend.
func (g *Gnuplot) Preview(title string, groups []render.PointGroup) error {
	return fmt.Errorf("%w: rebuild with -tags gnuplot to preview %q", ErrNoGnuplot, title)
}
