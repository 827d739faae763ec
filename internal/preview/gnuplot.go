//go:build gnuplot

package preview

import (
	"fmt"
	"os/exec"

	"github.com/Arafatk/glot"

	"github.com/HamletTheHamster/gammaplot/internal/render"
)

// Preview implements render.Previewer.
func (g *Gnuplot) Preview(title string, groups []render.PointGroup) error {
	if _, err := exec.LookPath("gnuplot"); err != nil {
		return fmt.Errorf("%w: %v", ErrNoGnuplot, err)
	}

	dimensions := 2
	plot, err := glot.NewPlot(dimensions, g.Persist, g.Debug)
	if err != nil {
		return fmt.Errorf("start gnuplot: %w", err)
	}

	for _, grp := range groups {
		if len(grp.X) == 0 {
			continue
		}
		style := grp.Style
		if style == "" {
			style = "points"
		}
		if err := plot.AddPointGroup(grp.Name, style, [][]float64{grp.X, grp.Y}); err != nil {
			return fmt.Errorf("add %q: %w", grp.Name, err)
		}
	}

	if err := plot.SetTitle(title); err != nil {
		return err
	}
	if g.SaveTo != "" {
		if err := plot.SavePlot(g.SaveTo); err != nil {
			return fmt.Errorf("save preview %s: %w", g.SaveTo, err)
		}
	}
	return nil
}
