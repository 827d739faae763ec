package flux

// FluxPoint is one SED measurement. E2DNDE, its errors and UL are in
// TeV cm-2 s-1.
type FluxPoint struct {
	Energy    Energy
	EnergyMin Energy
	EnergyMax Energy

	E2DNDE  float64
	ErrLow  float64
	ErrHigh float64

	IsUL bool
	UL   float64
}

// FluxPoints is an ordered set of SED measurements.
type FluxPoints []FluxPoint

// Partition splits point indices into measurements and upper limits.
func (fp FluxPoints) Partition() (measured, upperLimits []int) {
	for i, p := range fp {
		if p.IsUL {
			upperLimits = append(upperLimits, i)
		} else {
			measured = append(measured, i)
		}
	}
	return measured, upperLimits
}
