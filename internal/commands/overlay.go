package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/gammaplot/internal/observation"
	"github.com/HamletTheHamster/gammaplot/internal/render"
	"github.com/HamletTheHamster/gammaplot/internal/sky"
)

// overlayFlags are shared by the commands that build a region overlay.
type overlayFlags struct {
	frame        string
	source       []float64
	center       []float64
	exclusion    []float64
	exclusionRad float64
	nOff         int
	width        float64
	binSize      float64
	projection   string
	sourceName   string
	excludedName string
}

func (f *overlayFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.frame, "frame", "icrs", "Frame of all coordinates (icrs, galactic)")
	fl.Float64SliceVar(&f.source, "source", nil, "Source position lon,lat in degrees")
	fl.Float64SliceVar(&f.center, "center", nil, "Map centre lon,lat in degrees (default: source)")
	fl.Float64SliceVar(&f.exclusion, "exclusion", nil, "Excluded source position lon,lat in degrees (default: source)")
	fl.Float64Var(&f.exclusionRad, "exclusion-radius", 0.3, "Exclusion region radius in degrees")
	fl.IntVar(&f.nOff, "n-off", 3, "Number of OFF regions")
	fl.Float64Var(&f.width, "width", 3, "Map width in degrees")
	fl.Float64Var(&f.binSize, "binsz", 0.02, "Pixel size in degrees")
	fl.StringVar(&f.projection, "proj", "TAN", "Map projection (TAN, CAR)")
	fl.StringVar(&f.sourceName, "source-name", "source", "Legend name of the source")
	fl.StringVar(&f.excludedName, "excluded-name", "excluded source", "Legend name of the excluded source")
	_ = cmd.MarkFlagRequired("source")
}

// overlay assembles the overlay request for obs.
func (f *overlayFlags) overlay(obs *observation.Observation, show bool) (render.Overlay, error) {
	frame, err := sky.ParseFrame(f.frame)
	if err != nil {
		return render.Overlay{}, err
	}
	source, err := coordFlag("source", f.source, frame)
	if err != nil {
		return render.Overlay{}, err
	}
	center, exclusion := source, source
	if len(f.center) > 0 {
		if center, err = coordFlag("center", f.center, frame); err != nil {
			return render.Overlay{}, err
		}
	}
	if len(f.exclusion) > 0 {
		if exclusion, err = coordFlag("exclusion", f.exclusion, frame); err != nil {
			return render.Overlay{}, err
		}
	}
	proj, err := sky.ParseProjection(f.projection)
	if err != nil {
		return render.Overlay{}, err
	}
	geom, err := sky.NewGeometry(center, f.width, f.binSize, proj)
	if err != nil {
		return render.Overlay{}, err
	}

	return render.Overlay{
		Observation:        obs,
		Geometry:           geom,
		Source:             source,
		ExclusionCenter:    exclusion,
		ExclusionRadius:    f.exclusionRad,
		NOffRegions:        f.nOff,
		SourceName:         f.sourceName,
		ExcludedSourceName: f.excludedName,
		Show:               show,
	}, nil
}

func coordFlag(name string, v []float64, frame sky.Frame) (sky.Coord, error) {
	if len(v) != 2 {
		return sky.Coord{}, fmt.Errorf("--%s wants lon,lat, got %d values", name, len(v))
	}
	return sky.Coord{Lon: v[0], Lat: v[1], Frame: frame}, nil
}

// loadObservation reads and validates an observation file.
func loadObservation(path string) (*observation.Observation, error) {
	obs, err := observation.Load(path)
	if err != nil {
		return nil, err
	}
	if err := obs.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obs, nil
}
