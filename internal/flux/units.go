package flux

import (
	"fmt"
	"strconv"
	"strings"
)

// ergToTeV converts an energy flux in erg to TeV.
const ergToTeV = 0.6241509074

// ParseEnergyUnit maps a unit name onto its Energy scale. Empty means TeV.
func ParseEnergyUnit(s string) (Energy, error) {
	switch strings.TrimSpace(s) {
	case "", "TeV":
		return TeV, nil
	case "GeV":
		return GeV, nil
	case "MeV":
		return MeV, nil
	}
	return 0, fmt.Errorf("%w: energy %q", ErrUnknownUnit, s)
}

// ParseEnergy reads a quantity such as "100 GeV", "1TeV" or "0.3". A bare
// number is in TeV.
func ParseEnergy(s string) (Energy, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E'
	})
	num, unit := s, ""
	if i >= 0 {
		num, unit = s[:i], s[i:]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("energy %q: %w", s, err)
	}
	scale, err := ParseEnergyUnit(unit)
	if err != nil {
		return 0, err
	}
	return Energy(v) * scale, nil
}

// integralFluxScale returns the factor converting a photon flux in unit s
// to cm-2 s-1.
func integralFluxScale(s string) (float64, error) {
	switch normalizeUnit(s) {
	case "", "cm-2 s-1":
		return 1, nil
	case "m-2 s-1":
		return 1e-4, nil
	}
	return 0, fmt.Errorf("%w: flux %q", ErrUnknownUnit, s)
}

// sedScale returns the factor converting an E^2 dN/dE value in unit s to
// TeV cm-2 s-1.
func sedScale(s string) (float64, error) {
	switch normalizeUnit(s) {
	case "", "TeV cm-2 s-1":
		return 1, nil
	case "GeV cm-2 s-1":
		return 1e-3, nil
	case "erg cm-2 s-1":
		return ergToTeV, nil
	}
	return 0, fmt.Errorf("%w: sed %q", ErrUnknownUnit, s)
}

func normalizeUnit(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
