// Package config defines the plotting configuration and how it is loaded.
//
// Styling that used to be baked into the drawing code lives here as named
// fields with the historical values as defaults.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// OutputDir receives every saved figure. "." is the working directory.
	OutputDir string `koanf:"output_dir"`

	// Formats lists the file formats written for each figure; png always
	// comes first because its path is the one reported back.
	Formats []string `koanf:"formats"`

	// WidthIn and HeightIn size saved figures in inches.
	WidthIn  float64 `koanf:"width_in"`
	HeightIn float64 `koanf:"height_in"`

	// ThumbnailPx, when positive, also writes a thumbnail this many pixels wide.
	ThumbnailPx int `koanf:"thumbnail_px"`

	// Colormap is a ColorBrewer sequential palette name for counts maps.
	Colormap string `koanf:"colormap"`

	// Region and marker colours, as SVG colour names.
	OnColor       string `koanf:"on_color"`
	OffColor      string `koanf:"off_color"`
	PointingColor string `koanf:"pointing_color"`
	SourceColor   string `koanf:"source_color"`
	ExcludedColor string `koanf:"excluded_color"`

	// MarkerSize and LineWidth are in points.
	MarkerSize float64 `koanf:"marker_size"`
	LineWidth  float64 `koanf:"line_width"`

	// BandAlpha is the opacity of SED uncertainty bands.
	BandAlpha float64 `koanf:"band_alpha"`

	// CurvePoints is the number of energies sampled along SED model curves.
	CurvePoints int `koanf:"curve_points"`

	// MetricsFile, when set, receives Prometheus metrics after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		OutputDir:     ".",
		Formats:       []string{"png"},
		WidthIn:       8,
		HeightIn:      8,
		Colormap:      "YlGnBu",
		OnColor:       "crimson",
		OffColor:      "dodgerblue",
		PointingColor: "goldenrod",
		SourceColor:   "crimson",
		ExcludedColor: "black",
		MarkerSize:    14,
		LineWidth:     2,
		BandAlpha:     0.4,
		CurvePoints:   100,
	}
}

var knownFormats = map[string]bool{"png": true, "svg": true, "pdf": true, "eps": true, "jpg": true, "tif": true}

// Validate checks ranges and normalises Formats so png leads.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if c.WidthIn <= 0 || c.HeightIn <= 0 {
		return fmt.Errorf("%w: figure size %gx%g in", ErrInvalidConfig, c.WidthIn, c.HeightIn)
	}
	if c.ThumbnailPx < 0 {
		return fmt.Errorf("%w: thumbnail_px %d", ErrInvalidConfig, c.ThumbnailPx)
	}
	if c.MarkerSize <= 0 || c.LineWidth <= 0 {
		return fmt.Errorf("%w: marker_size and line_width must be positive", ErrInvalidConfig)
	}
	if c.BandAlpha <= 0 || c.BandAlpha > 1 {
		return fmt.Errorf("%w: band_alpha %g outside (0, 1]", ErrInvalidConfig, c.BandAlpha)
	}
	if c.CurvePoints < 2 {
		return fmt.Errorf("%w: curve_points %d", ErrInvalidConfig, c.CurvePoints)
	}

	formats := []string{"png"}
	for _, f := range c.Formats {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if !knownFormats[f] {
			return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, f)
		}
		if f != "png" && !contains(formats, f) {
			formats = append(formats, f)
		}
	}
	c.Formats = formats
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
