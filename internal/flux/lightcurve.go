package flux

import "math"

// upperLimitBarFraction scales the largest detection error into the length
// drawn under every upper limit. It is a visual convention, not a
// statistical error.
const upperLimitBarFraction = 0.25

// LightCurveRow is one time bin of a light curve. Fluxes are in cm-2 s-1,
// times in MJD.
type LightCurveRow struct {
	TimeMid       float64
	TimeHalfWidth float64
	Flux          float64
	FluxErr       float64
	IsUL          bool
	FluxUL        float64
}

// NewLightCurveRow builds a row from the bin edges.
func NewLightCurveRow(tmin, tmax, flux, fluxErr float64, isUL bool, fluxUL float64) LightCurveRow {
	return LightCurveRow{
		TimeMid:       0.5 * (tmin + tmax),
		TimeHalfWidth: 0.5 * (tmax - tmin),
		Flux:          flux,
		FluxErr:       fluxErr,
		IsUL:          isUL,
		FluxUL:        fluxUL,
	}
}

// LightCurve is an ordered flux series.
type LightCurve struct {
	Rows []LightCurveRow
}

// Partition splits the row indices by the upper-limit flag. Every index
// lands in exactly one of the two slices, in input order.
func (lc LightCurve) Partition() (detections, upperLimits []int) {
	for i, r := range lc.Rows {
		if r.IsUL {
			upperLimits = append(upperLimits, i)
		} else {
			detections = append(detections, i)
		}
	}
	return detections, upperLimits
}

// UpperLimitBarLength is the bar length drawn under every upper limit:
// a quarter of the largest flux error among detections. NaN errors are
// skipped; with no usable detection error the bar has zero length.
func (lc LightCurve) UpperLimitBarLength() float64 {
	largest := math.Inf(-1)
	for _, r := range lc.Rows {
		if r.IsUL || math.IsNaN(r.FluxErr) {
			continue
		}
		largest = math.Max(largest, r.FluxErr)
	}
	if math.IsInf(largest, -1) {
		return 0
	}
	return upperLimitBarFraction * largest
}
