package flux

import (
	"fmt"
	"math"
	"os"

	"github.com/bytedance/sonic"
	"gonum.org/v1/gonum/mat"
)

type lightCurveDoc struct {
	FluxUnit string `json:"flux_unit"`
	Bins     []struct {
		TimeMin float64  `json:"time_min"`
		TimeMax float64  `json:"time_max"`
		Flux    *float64 `json:"flux"`
		FluxErr *float64 `json:"flux_err"`
		IsUL    bool     `json:"is_ul"`
		FluxUL  *float64 `json:"flux_ul"`
	} `json:"bins"`
}

type fluxPointsDoc struct {
	EnergyUnit string `json:"energy_unit"`
	SEDUnit    string `json:"sed_unit"`
	Points     []struct {
		ERef     float64  `json:"e_ref"`
		EMin     *float64 `json:"e_min"`
		EMax     *float64 `json:"e_max"`
		E2DNDE   float64  `json:"e2dnde"`
		Err      *float64 `json:"e2dnde_err"`
		ErrN     *float64 `json:"e2dnde_errn"`
		ErrP     *float64 `json:"e2dnde_errp"`
		IsUL     bool     `json:"is_ul"`
		E2DNDEUL *float64 `json:"e2dnde_ul"`
	} `json:"points"`
}

type modelDoc struct {
	Type       string             `json:"type"`
	Reference  float64            `json:"reference"`
	EnergyUnit string             `json:"energy_unit"`
	Parameters map[string]float64 `json:"parameters"`
	Covariance [][]float64        `json:"covariance"`
}

// LoadLightCurve reads a binned light curve. Fluxes are converted to
// cm-2 s-1; missing values become NaN.
func LoadLightCurve(path string) (LightCurve, error) {
	var doc lightCurveDoc
	if err := readJSON(path, &doc); err != nil {
		return LightCurve{}, err
	}
	scale, err := integralFluxScale(doc.FluxUnit)
	if err != nil {
		return LightCurve{}, fmt.Errorf("%s: %w", path, err)
	}
	lc := LightCurve{Rows: make([]LightCurveRow, len(doc.Bins))}
	for i, b := range doc.Bins {
		if b.TimeMax < b.TimeMin {
			return LightCurve{}, fmt.Errorf("%w: %s bin %d ends before it starts", ErrInvalidSeries, path, i)
		}
		lc.Rows[i] = NewLightCurveRow(b.TimeMin, b.TimeMax,
			orNaN(b.Flux)*scale, orNaN(b.FluxErr)*scale, b.IsUL, orNaN(b.FluxUL)*scale)
	}
	return lc, nil
}

// LoadFluxPoints reads SED flux points. Missing bin edges collapse onto
// e_ref; asymmetric errors fall back to the symmetric one.
func LoadFluxPoints(path string) (FluxPoints, error) {
	var doc fluxPointsDoc
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	eUnit, err := ParseEnergyUnit(doc.EnergyUnit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	scale, err := sedScale(doc.SEDUnit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	points := make(FluxPoints, len(doc.Points))
	for i, p := range doc.Points {
		sym := orZero(p.Err)
		points[i] = FluxPoint{
			Energy:    Energy(p.ERef) * eUnit,
			EnergyMin: Energy(orValue(p.EMin, p.ERef)) * eUnit,
			EnergyMax: Energy(orValue(p.EMax, p.ERef)) * eUnit,
			E2DNDE:    p.E2DNDE * scale,
			ErrLow:    orValue(p.ErrN, sym) * scale,
			ErrHigh:   orValue(p.ErrP, sym) * scale,
			IsUL:      p.IsUL,
			UL:        orNaN(p.E2DNDEUL) * scale,
		}
		if points[i].Energy <= 0 {
			return nil, fmt.Errorf("%w: %s point %d has energy %g", ErrEnergyRange, path, i, p.ERef)
		}
	}
	return points, nil
}

// LoadModel reads a spectral model and its optional covariance.
func LoadModel(path string) (Model, error) {
	var doc modelDoc
	if err := readJSON(path, &doc); err != nil {
		return Model{}, err
	}
	eUnit, err := ParseEnergyUnit(doc.EnergyUnit)
	if err != nil {
		return Model{}, fmt.Errorf("%s: %w", path, err)
	}
	ref := doc.Reference
	if ref == 0 {
		ref = 1
	}
	m, err := NewModel(doc.Type, doc.Parameters, Energy(ref)*eUnit)
	if err != nil {
		return Model{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(doc.Covariance) == 0 {
		return m, nil
	}

	n := len(m.Params)
	if len(doc.Covariance) != n {
		return Model{}, fmt.Errorf("%s: covariance has %d rows, want %d", path, len(doc.Covariance), n)
	}
	cov := mat.NewSymDense(n, nil)
	for i, row := range doc.Covariance {
		if len(row) != n {
			return Model{}, fmt.Errorf("%s: covariance row %d has %d columns, want %d", path, i, len(row), n)
		}
		for j := i; j < n; j++ {
			cov.SetSym(i, j, row[j])
		}
	}
	return m.WithCovariance(cov)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSeries, path, err)
	}
	return nil
}

func orNaN(v *float64) float64 {
	return orValue(v, math.NaN())
}

func orZero(v *float64) float64 {
	return orValue(v, 0)
}

func orValue(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
