package commands

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/gammaplot/internal/flux"
	"github.com/HamletTheHamster/gammaplot/internal/preview"
	"github.com/HamletTheHamster/gammaplot/internal/render"
	"github.com/HamletTheHamster/gammaplot/pkg/logger"
	"github.com/HamletTheHamster/gammaplot/pkg/metrics"
)

func newLightCurveCmd(a *app) *cobra.Command {
	var (
		labels []string
		colors []string
		title  string
		name   string
		alpha  float64
	)
	cmd := &cobra.Command{
		Use:   "lightcurve <series.json>...",
		Short: "Plot one or more light curves on shared axes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			start := time.Now()
			defer func() { a.metrics.ObserveRender(metrics.KindLightCurve, time.Since(start), err) }()

			p := a.style.NewLightCurvePlot(title)
			var groups []render.PointGroup
			for i, path := range args {
				lc, err := flux.LoadLightCurve(path)
				if err != nil {
					return err
				}
				label := seriesLabel(labels, i, path)
				c, err := seriesColor(a.style, colors, i)
				if err != nil {
					return err
				}
				layers, err := a.style.PlotLightCurve(p, lc, c, label, alpha)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.log.Info(cmd.Context(), "light curve drawn",
					logger.String("series", label),
					logger.Int("detections", len(layers.Detections)),
					logger.Int("upper_limits", len(layers.UpperLimits)),
					logger.Int("skipped", len(layers.Skipped)))
				groups = append(groups, render.LightCurveGroups(label, lc)...)
			}

			out, err := a.renderer.Save(p, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return a.preview(title, groups)
		},
	}
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Legend label per series (default: file name)")
	cmd.Flags().StringSliceVar(&colors, "colors", nil, "Colour per series (default: style palette)")
	cmd.Flags().StringVar(&title, "title", "", "Figure title")
	cmd.Flags().StringVar(&name, "name", "lightcurve", "Output file name without extension")
	cmd.Flags().Float64Var(&alpha, "alpha", 1, "Opacity of every series")
	return cmd
}

func seriesLabel(labels []string, i int, path string) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// seriesColor picks the i-th configured colour, cycling through the style
// colours when none is given.
func seriesColor(s render.Style, colors []string, i int) (color.Color, error) {
	if i < len(colors) {
		return render.ParseColor(colors[i])
	}
	cycle := []color.Color{s.OnColor, s.OffColor, s.PointingColor, s.ExcludedColor}
	return cycle[i%len(cycle)], nil
}

// preview shows groups when --show is set.
func (a *app) preview(title string, groups []render.PointGroup) error {
	if !a.show {
		return nil
	}
	return preview.New().Preview(title, groups)
}
