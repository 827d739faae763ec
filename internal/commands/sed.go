package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/plotter"

	"github.com/HamletTheHamster/gammaplot/internal/flux"
	"github.com/HamletTheHamster/gammaplot/internal/render"
	"github.com/HamletTheHamster/gammaplot/pkg/logger"
	"github.com/HamletTheHamster/gammaplot/pkg/metrics"
)

func newSEDCmd(a *app) *cobra.Command {
	var (
		modelPath  string
		pointsPath string
		eMin, eMax string
		fit        bool
		label      string
		colorName  string
		title      string
		name       string
	)
	cmd := &cobra.Command{
		Use:   "sed",
		Short: "Plot a spectral model with its uncertainty band and flux points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			start := time.Now()
			defer func() { a.metrics.ObserveRender(metrics.KindSED, time.Since(start), err) }()

			lo, err := flux.ParseEnergy(eMin)
			if err != nil {
				return err
			}
			hi, err := flux.ParseEnergy(eMax)
			if err != nil {
				return err
			}
			model, err := flux.LoadModel(modelPath)
			if err != nil {
				return err
			}
			var points flux.FluxPoints
			if pointsPath != "" {
				if points, err = flux.LoadFluxPoints(pointsPath); err != nil {
					return err
				}
			}
			if fit {
				if model, err = flux.Fit(points, model, flux.DefaultFitSettings); err != nil {
					return err
				}
				fields := []logger.Field{logger.String("model", model.Name)}
				for i, n := range model.Names {
					fields = append(fields, logger.Float64(n, model.Params[i]))
				}
				a.log.Info(cmd.Context(), "spectral fit converged", fields...)
			}

			c := a.style.SourceColor
			if colorName != "" {
				if c, err = render.ParseColor(colorName); err != nil {
					return err
				}
			}

			p := a.style.NewPlot(title, render.SEDXLabel, render.SEDYLabel)
			layers, err := a.style.PlotSED(p, model, points, lo, hi, c, label)
			if err != nil {
				return err
			}
			a.log.Debug(cmd.Context(), "sed drawn",
				logger.Int("points", len(layers.Measured)),
				logger.Int("upper_limits", len(layers.UpperLimits)),
				logger.Int("skipped", len(layers.Skipped)))

			out, err := a.renderer.Save(p, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return a.preview(title, []render.PointGroup{curveGroup(model.Name, layers.Curve)})
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "Spectral model JSON file")
	cmd.Flags().StringVar(&pointsPath, "points", "", "Flux points JSON file")
	cmd.Flags().StringVar(&eMin, "emin", "100 GeV", "Lower energy bound of the model curve")
	cmd.Flags().StringVar(&eMax, "emax", "20 TeV", "Upper energy bound of the model curve")
	cmd.Flags().BoolVar(&fit, "fit", false, "Fit the model to the flux points before plotting")
	cmd.Flags().StringVar(&label, "label", "", "Legend label of the flux points")
	cmd.Flags().StringVar(&colorName, "color", "", "Colour of model and points (default source_color)")
	cmd.Flags().StringVar(&title, "title", "", "Figure title")
	cmd.Flags().StringVar(&name, "name", "sed", "Output file name without extension")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func curveGroup(name string, xys plotter.XYs) render.PointGroup {
	g := render.PointGroup{Name: name, Style: "lines"}
	for _, pt := range xys {
		g.X = append(g.X, pt.X)
		g.Y = append(g.Y, pt.Y)
	}
	return g
}
