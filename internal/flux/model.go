package flux

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// shapeFunc evaluates dN/dE in TeV-1 cm-2 s-1 for parameters p.
type shapeFunc func(e Energy, p []float64, ref Energy) float64

// Model is a parametric spectral model with an optional parameter
// covariance. The first parameter is always the amplitude at Reference.
type Model struct {
	Name      string
	Names     []string
	Params    []float64
	Reference Energy
	Cov       *mat.SymDense

	shape shapeFunc
}

// PowerLaw is A (E/E0)^-index.
func PowerLaw(amplitude, index float64, reference Energy) Model {
	return Model{
		Name:      "PowerLaw",
		Names:     []string{"amplitude", "index"},
		Params:    []float64{amplitude, index},
		Reference: reference,
		shape: func(e Energy, p []float64, ref Energy) float64 {
			return p[0] * math.Pow(float64(e/ref), -p[1])
		},
	}
}

// LogParabola is A (E/E0)^(-alpha - beta ln(E/E0)).
func LogParabola(amplitude, alpha, beta float64, reference Energy) Model {
	return Model{
		Name:      "LogParabola",
		Names:     []string{"amplitude", "alpha", "beta"},
		Params:    []float64{amplitude, alpha, beta},
		Reference: reference,
		shape: func(e Energy, p []float64, ref Energy) float64 {
			x := float64(e / ref)
			return p[0] * math.Pow(x, -p[1]-p[2]*math.Log(x))
		},
	}
}

// ExpCutoffPowerLaw is A (E/E0)^-index exp(-lambda E), lambda in TeV-1.
func ExpCutoffPowerLaw(amplitude, index, lambda float64, reference Energy) Model {
	return Model{
		Name:      "ExpCutoffPowerLaw",
		Names:     []string{"amplitude", "index", "lambda"},
		Params:    []float64{amplitude, index, lambda},
		Reference: reference,
		shape: func(e Energy, p []float64, ref Energy) float64 {
			return p[0] * math.Pow(float64(e/ref), -p[1]) * math.Exp(-p[2]*e.TeV())
		},
	}
}

// NewModel builds a model by name from named parameter values. Missing
// parameters are an error.
func NewModel(name string, params map[string]float64, reference Energy) (Model, error) {
	var m Model
	switch strings.ToLower(name) {
	case "powerlaw", "pl":
		m = PowerLaw(0, 0, reference)
	case "logparabola", "lp":
		m = LogParabola(0, 0, 0, reference)
	case "expcutoffpowerlaw", "ecpl":
		m = ExpCutoffPowerLaw(0, 0, 0, reference)
	default:
		return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	if reference <= 0 {
		return Model{}, fmt.Errorf("%w: reference energy %s", ErrEnergyRange, reference)
	}
	for i, n := range m.Names {
		v, ok := params[n]
		if !ok {
			return Model{}, fmt.Errorf("%s: missing parameter %q", m.Name, n)
		}
		m.Params[i] = v
	}
	return m, nil
}

// WithParams returns a copy of m using p. The covariance is dropped.
func (m Model) WithParams(p []float64) Model {
	out := m
	out.Params = append([]float64(nil), p...)
	out.Cov = nil
	return out
}

// WithCovariance returns a copy of m carrying cov.
func (m Model) WithCovariance(cov *mat.SymDense) (Model, error) {
	if cov != nil && cov.SymmetricDim() != len(m.Params) {
		return Model{}, fmt.Errorf("%s: covariance is %dx%[2]d, want %d parameters", m.Name, cov.SymmetricDim(), len(m.Params))
	}
	out := m
	out.Cov = cov
	return out, nil
}

// DNDE returns the differential flux in TeV-1 cm-2 s-1.
func (m Model) DNDE(e Energy) float64 {
	return m.shape(e, m.Params, m.Reference)
}

// E2DNDE returns E^2 dN/dE in TeV cm-2 s-1.
func (m Model) E2DNDE(e Energy) float64 {
	return e.TeV() * e.TeV() * m.DNDE(e)
}

// E2DNDEError returns the 1 sigma uncertainty of E2DNDE(e) propagated
// linearly from the covariance. Without covariance it is zero.
func (m Model) E2DNDEError(e Energy) float64 {
	if m.Cov == nil {
		return 0
	}
	grad := m.gradient(e)
	g := mat.NewVecDense(len(grad), grad)
	v := mat.Inner(g, m.Cov, g)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// gradient differentiates E2DNDE with respect to the parameters. The
// parameters span many decades (amplitudes near 1e-11), so the derivative
// is taken against parameters normalised to their own magnitude.
func (m Model) gradient(e Energy) []float64 {
	scale := make([]float64, len(m.Params))
	for i, p := range m.Params {
		scale[i] = math.Abs(p)
		if scale[i] == 0 {
			scale[i] = 1
		}
	}
	q0 := make([]float64, len(m.Params))
	for i := range q0 {
		q0[i] = m.Params[i] / scale[i]
	}
	p := make([]float64, len(m.Params))
	f := func(q []float64) float64 {
		for i := range q {
			p[i] = q[i] * scale[i]
		}
		return e.TeV() * e.TeV() * m.shape(e, p, m.Reference)
	}
	grad := fd.Gradient(nil, f, q0, &fd.Settings{Formula: fd.Central})
	for i := range grad {
		grad[i] /= scale[i]
	}
	return grad
}
