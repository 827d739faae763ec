package flux

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSampleEnergies(t *testing.T) {
	es, err := SampleEnergies(100*GeV, 10*TeV, 100)
	require.NoError(t, err)
	require.Len(t, es, 100)

	assert.Equal(t, 100*GeV, es[0])
	assert.Equal(t, 10*TeV, es[99])
	for i := 1; i < len(es); i++ {
		assert.Greater(t, es[i].TeV(), es[i-1].TeV())
		assert.GreaterOrEqual(t, es[i].TeV(), 0.1)
		assert.LessOrEqual(t, es[i].TeV(), 10.0)
	}
	// log spacing: constant ratio
	assert.InEpsilon(t, float64(es[1]/es[0]), float64(es[51]/es[50]), 1e-9)
}

func TestSampleEnergiesRejectsBadRanges(t *testing.T) {
	for _, tc := range []struct {
		min, max Energy
		n        int
	}{
		{0, TeV, 10},
		{TeV, TeV, 10},
		{10 * TeV, TeV, 10},
		{GeV, TeV, 1},
	} {
		_, err := SampleEnergies(tc.min, tc.max, tc.n)
		assert.ErrorIs(t, err, ErrEnergyRange)
	}
}

func TestEnergyUnits(t *testing.T) {
	assert.InDelta(t, 100, (100 * GeV).GeV(), 1e-9)
	assert.InDelta(t, 0.1, (100 * GeV).TeV(), 1e-12)
	assert.Equal(t, "100 GeV", (100 * GeV).String())
	assert.Equal(t, "10 TeV", (10 * TeV).String())
}

func TestParseEnergy(t *testing.T) {
	tests := []struct {
		in   string
		want Energy
	}{
		{"100 GeV", 100 * GeV},
		{"1TeV", TeV},
		{"0.3", 0.3 * TeV},
		{" 500 MeV ", 500 * MeV},
		{"1e2 GeV", 100 * GeV},
	}
	for _, tt := range tests {
		got, err := ParseEnergy(tt.in)
		require.NoError(t, err, tt.in)
		assert.InEpsilon(t, tt.want.TeV(), got.TeV(), 1e-12, tt.in)
	}

	_, err := ParseEnergy("3 keV")
	assert.ErrorIs(t, err, ErrUnknownUnit)
	_, err = ParseEnergy("GeV")
	assert.Error(t, err)
}

func TestPowerLaw(t *testing.T) {
	m := PowerLaw(3e-11, 2.5, TeV)
	assert.InEpsilon(t, 3e-11, m.DNDE(TeV), 1e-12)
	assert.InEpsilon(t, 3e-11*math.Pow(10, -2.5), m.DNDE(10*TeV), 1e-12)
	assert.InEpsilon(t, 100*3e-11*math.Pow(10, -2.5), m.E2DNDE(10*TeV), 1e-12)
	assert.Zero(t, m.E2DNDEError(TeV))
}

func TestLogParabolaAndCutoff(t *testing.T) {
	lp := LogParabola(4e-11, 2.4, 0.1, TeV)
	x := 5.0
	want := 4e-11 * math.Pow(x, -2.4-0.1*math.Log(x))
	assert.InEpsilon(t, want, lp.DNDE(5*TeV), 1e-12)

	ec := ExpCutoffPowerLaw(4e-11, 2.0, 0.1, TeV)
	assert.InEpsilon(t, 4e-11*math.Pow(5, -2)*math.Exp(-0.5), ec.DNDE(5*TeV), 1e-12)
}

func TestE2DNDEErrorPropagation(t *testing.T) {
	amp, sigmaAmp := 3e-11, 3e-12
	cov := mat.NewSymDense(2, []float64{sigmaAmp * sigmaAmp, 0, 0, 0})
	m, err := PowerLaw(amp, 2.5, TeV).WithCovariance(cov)
	require.NoError(t, err)

	for _, e := range []Energy{100 * GeV, TeV, 20 * TeV} {
		// only the amplitude is uncertain: relative error carries over
		assert.InEpsilon(t, m.E2DNDE(e)*sigmaAmp/amp, m.E2DNDEError(e), 1e-6)
	}

	// index uncertainty vanishes at the reference energy and grows away from it
	cov = mat.NewSymDense(2, []float64{0, 0, 0, 0.01})
	m, err = PowerLaw(amp, 2.5, TeV).WithCovariance(cov)
	require.NoError(t, err)
	assert.InDelta(t, 0, m.E2DNDEError(TeV), 1e-20)
	assert.InEpsilon(t, m.E2DNDE(10*TeV)*math.Log(10)*0.1, m.E2DNDEError(10*TeV), 1e-6)
}

func TestWithCovarianceDimension(t *testing.T) {
	_, err := PowerLaw(1, 2, TeV).WithCovariance(mat.NewSymDense(3, nil))
	assert.Error(t, err)
}

func TestNewModel(t *testing.T) {
	m, err := NewModel("LogParabola", map[string]float64{"amplitude": 1e-11, "alpha": 2.3, "beta": 0.2}, TeV)
	require.NoError(t, err)
	assert.Equal(t, []float64{1e-11, 2.3, 0.2}, m.Params)

	_, err = NewModel("Gaussian", nil, TeV)
	assert.ErrorIs(t, err, ErrUnknownModel)

	_, err = NewModel("PowerLaw", map[string]float64{"amplitude": 1e-11}, TeV)
	assert.Error(t, err)
}

func TestLoadModelAndPoints(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(`{
  "type": "PowerLaw",
  "reference": 1,
  "energy_unit": "TeV",
  "parameters": {"amplitude": 3.5e-11, "index": 2.6},
  "covariance": [[1e-24, 0], [0, 0.0025]]
}`), 0o644))

	m, err := LoadModel(modelPath)
	require.NoError(t, err)
	assert.Equal(t, "PowerLaw", m.Name)
	require.NotNil(t, m.Cov)
	assert.Equal(t, 0.0025, m.Cov.At(1, 1))

	pointsPath := filepath.Join(dir, "points.json")
	require.NoError(t, os.WriteFile(pointsPath, []byte(`{
  "energy_unit": "GeV",
  "sed_unit": "TeV cm-2 s-1",
  "points": [
    {"e_ref": 150, "e_min": 100, "e_max": 220, "e2dnde": 4e-11, "e2dnde_err": 4e-12},
    {"e_ref": 30000, "e2dnde": 0, "is_ul": true, "e2dnde_ul": 1e-12}
  ]
}`), 0o644))

	points, err := LoadFluxPoints(pointsPath)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InDelta(t, 0.15, points[0].Energy.TeV(), 1e-12)
	assert.InDelta(t, 0.1, points[0].EnergyMin.TeV(), 1e-12)
	assert.Equal(t, 4e-12, points[0].ErrLow)
	assert.Equal(t, 4e-12, points[0].ErrHigh)
	assert.Equal(t, points[1].Energy, points[1].EnergyMax)
	assert.True(t, points[1].IsUL)

	measured, uls := points.Partition()
	assert.Equal(t, []int{0}, measured)
	assert.Equal(t, []int{1}, uls)
}
