package sky

import "errors"

// Counts is a filled counts map. It satisfies gonum/plot's plotter.GridXYZ
// so it can be drawn directly as a heat map.
type Counts struct {
	Geometry Geometry

	// Binned and Outside count the events that fell on and off the grid.
	Binned  int
	Outside int

	data []float64
}

// Dims returns the number of columns and rows.
func (c *Counts) Dims() (cols, rows int) {
	return c.Geometry.NX, c.Geometry.NY
}

// Z returns the counts in pixel (col, row).
func (c *Counts) Z(col, row int) float64 {
	return c.data[row*c.Geometry.NX+col]
}

// X returns the projected x offset of column col.
func (c *Counts) X(col int) float64 {
	return c.Geometry.PixelCenter(col, 0).X
}

// Y returns the projected y offset of row row.
func (c *Counts) Y(row int) float64 {
	return c.Geometry.PixelCenter(0, row).Y
}

// Max returns the largest pixel value.
func (c *Counts) Max() float64 {
	var m float64
	for _, v := range c.data {
		if v > m {
			m = v
		}
	}
	return m
}

func isOutside(err error) bool {
	return errors.Is(err, ErrOutsideProjection)
}
