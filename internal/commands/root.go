// Package commands implements the gammaplot command line.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/gammaplot/internal/config"
	"github.com/HamletTheHamster/gammaplot/internal/preview"
	"github.com/HamletTheHamster/gammaplot/internal/render"
	"github.com/HamletTheHamster/gammaplot/pkg/logger"
	"github.com/HamletTheHamster/gammaplot/pkg/metrics"
)

// app is the state shared by every subcommand, built before any of them
// runs.
type app struct {
	configPath string
	debug      bool
	outputDir  string
	show       bool

	cfg      *config.Config
	log      logger.Logger
	metrics  *metrics.Manager
	style    render.Style
	renderer *render.Renderer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gammaplot",
		Short: "Plotting helpers for IACT gamma-ray analyses",
		Long: `gammaplot draws ON/OFF region overlays on counts maps, light curves and
spectral energy distributions.

Examples:
  gammaplot skymap obs.json --source 83.633,22.014 --n-off 3
  gammaplot regions obs.json --source 83.633,22.014 --n-off 5
  gammaplot lightcurve crab_lst.json crab_magic.json --labels LST-1,MAGIC
  gammaplot sed --model crab_model.json --points crab_points.json --emin "50 GeV" --emax "30 TeV"
  gammaplot watch obs.json --source 83.633,22.014`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.flushMetrics()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "",
		"YAML configuration file (default $GAMMAPLOT_CONFIG)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false,
		"Enable debug logging")
	root.PersistentFlags().StringVarP(&a.outputDir, "output-dir", "o", "",
		"Directory figures are written to (overrides output_dir)")
	root.PersistentFlags().BoolVar(&a.show, "show", false,
		"Also preview the result in a gnuplot window")

	root.AddCommand(
		newSkymapCmd(a),
		newRegionsCmd(a),
		newLightCurveCmd(a),
		newSEDCmd(a),
		newWatchCmd(a),
	)
	return root
}

// ExecuteContext runs the command line until ctx is done.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(ctx context.Context) error {
	if err := logger.Init(); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.outputDir != "" {
		cfg.OutputDir = a.outputDir
	}
	level := cfg.LogLevel
	if a.debug {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	style, err := render.StyleFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	a.cfg = cfg
	a.style = style
	a.log = logger.Named("gammaplot")
	a.metrics = metrics.New()

	opts := []render.Option{
		render.WithOutputDir(cfg.OutputDir),
		render.WithFormats(cfg.Formats...),
		render.WithThumbnail(cfg.ThumbnailPx),
		render.WithLogger(a.log.Named("render")),
		render.WithMetrics(a.metrics),
	}
	if a.show {
		opts = append(opts, render.WithPreviewer(preview.New()))
	}
	a.renderer = render.NewRenderer(style, opts...)

	a.log.Debug(ctx, "configuration loaded",
		logger.String("output_dir", cfg.OutputDir),
		logger.Any("formats", cfg.Formats))
	return nil
}

func (a *app) flushMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics %s: %w", a.cfg.MetricsFile, err)
	}
	return nil
}
