//go:build !gnuplot

package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HamletTheHamster/gammaplot/internal/render"
)

func TestPreviewWithoutGnuplotBackend(t *testing.T) {
	err := New().Preview("run 1, 3 off regions", []render.PointGroup{
		{Name: "pointing", Style: "points", X: []float64{0}, Y: []float64{0.5}},
	})
	assert.ErrorIs(t, err, ErrNoGnuplot)
	assert.ErrorContains(t, err, "run 1, 3 off regions")
}
