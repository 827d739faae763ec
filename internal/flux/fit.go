package flux

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// FitSettings tunes the Levenberg-Marquardt solver.
type FitSettings struct {
	Iterations   int
	ObjectiveTol float64
}

// DefaultFitSettings caps the solver at 100 iterations.
var DefaultFitSettings = FitSettings{Iterations: 100, ObjectiveTol: 1e-16}

// Fit adjusts the parameters of m to the measured flux points, starting
// from m.Params. Residuals are taken in log10 space, weighted by the mean
// point error; upper limits and points without a positive value and error
// are left out. The amplitude is fitted as its logarithm and the returned
// covariance is transformed back to linear amplitude.
func Fit(points FluxPoints, m Model, settings FitSettings) (Model, error) {
	used := usablePoints(points)
	dim := len(m.Params)
	if len(used) < dim {
		return Model{}, fmt.Errorf("%w: %d usable points for %d parameters of %s", ErrTooFewPoints, len(used), dim, m.Name)
	}
	if m.Params[0] <= 0 {
		return Model{}, fmt.Errorf("%s: initial amplitude must be positive, got %g", m.Name, m.Params[0])
	}

	p := make([]float64, dim)
	residuals := func(dst, x []float64) {
		p[0] = math.Pow(10, x[0])
		copy(p[1:], x[1:])
		for j, pt := range used {
			e := pt.Energy
			model := e.TeV() * e.TeV() * m.shape(e, p, m.Reference)
			sigma := 0.5 * (pt.ErrLow + pt.ErrHigh) / (pt.E2DNDE * math.Ln10)
			dst[j] = (math.Log10(model) - math.Log10(pt.E2DNDE)) / sigma
		}
	}

	x0 := append([]float64{math.Log10(m.Params[0])}, m.Params[1:]...)

	jacobian := lm.NumJac{Func: residuals}

	problem := lm.LMProblem{
		Dim:        dim,
		Size:       len(used),
		Func:       residuals,
		Jac:        jacobian.Jac,
		InitParams: x0,
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: settings.Iterations, ObjectiveTol: settings.ObjectiveTol})
	if err != nil {
		return Model{}, fmt.Errorf("fit %s: %w", m.Name, err)
	}
	x := append([]float64(nil), results.X...)
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Model{}, fmt.Errorf("fit %s: solver diverged", m.Name)
		}
	}

	cov, err := covariance(residuals, x, len(used))
	if err != nil {
		return Model{}, fmt.Errorf("fit %s: %w", m.Name, err)
	}

	best := append([]float64{math.Pow(10, x[0])}, x[1:]...)
	// d amplitude / d log10(amplitude)
	jac := make([]float64, dim)
	for i := range jac {
		jac[i] = 1
	}
	jac[0] = best[0] * math.Ln10
	linear := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			linear.SetSym(i, j, cov.At(i, j)*jac[i]*jac[j])
		}
	}

	return m.WithParams(best).WithCovariance(linear)
}

// covariance returns (J^T J)^-1 at x for weighted residuals.
func covariance(residuals func(dst, x []float64), x []float64, size int) (*mat.SymDense, error) {
	j := mat.NewDense(size, len(x), nil)
	fd.Jacobian(j, residuals, x, &fd.JacobianSettings{Formula: fd.Central})

	var jtj mat.SymDense
	jtj.SymOuterK(1, j.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&jtj); !ok {
		return nil, ErrSingularFit
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularFit, err)
	}
	return &cov, nil
}

func usablePoints(points FluxPoints) []FluxPoint {
	var used []FluxPoint
	for _, pt := range points {
		if pt.IsUL || pt.E2DNDE <= 0 || pt.ErrLow+pt.ErrHigh <= 0 || pt.Energy <= 0 {
			continue
		}
		used = append(used, pt)
	}
	return used
}
