package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticPoints(m Model, energies ...Energy) FluxPoints {
	points := make(FluxPoints, len(energies))
	for i, e := range energies {
		v := m.E2DNDE(e)
		points[i] = FluxPoint{
			Energy:    e,
			EnergyMin: e * 0.8,
			EnergyMax: e * 1.25,
			E2DNDE:    v,
			ErrLow:    0.1 * v,
			ErrHigh:   0.1 * v,
		}
	}
	return points
}

func TestFitRecoversPowerLaw(t *testing.T) {
	truth := PowerLaw(3.5e-11, 2.6, TeV)
	points := syntheticPoints(truth, 100*GeV, 300*GeV, TeV, 3*TeV, 10*TeV, 30*TeV)
	// an upper limit must not pull the fit
	points = append(points, FluxPoint{Energy: 50 * TeV, IsUL: true, UL: 1e-10})

	fitted, err := Fit(points, PowerLaw(1e-11, 2.0, TeV), DefaultFitSettings)
	require.NoError(t, err)

	assert.InEpsilon(t, 3.5e-11, fitted.Params[0], 1e-4)
	assert.InDelta(t, 2.6, fitted.Params[1], 1e-4)

	require.NotNil(t, fitted.Cov)
	assert.Greater(t, fitted.Cov.At(0, 0), 0.0)
	assert.Greater(t, fitted.Cov.At(1, 1), 0.0)

	// 10% errors on every point give a band of a few percent at 1 TeV
	rel := fitted.E2DNDEError(TeV) / fitted.E2DNDE(TeV)
	assert.Greater(t, rel, 0.0)
	assert.Less(t, rel, 0.1)
}

func TestFitTooFewPoints(t *testing.T) {
	truth := PowerLaw(3.5e-11, 2.6, TeV)
	_, err := Fit(syntheticPoints(truth, TeV), truth, DefaultFitSettings)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Fit(FluxPoints{{Energy: TeV, IsUL: true}}, truth, DefaultFitSettings)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestFitRejectsNonPositiveAmplitude(t *testing.T) {
	truth := PowerLaw(3.5e-11, 2.6, TeV)
	points := syntheticPoints(truth, TeV, 3*TeV, 10*TeV)
	_, err := Fit(points, PowerLaw(-1, 2, TeV), DefaultFitSettings)
	assert.Error(t, err)
}
