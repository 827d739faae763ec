package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/gammaplot/internal/watch"
	"github.com/HamletTheHamster/gammaplot/pkg/logger"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		f        overlayFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <observation.json>",
		Short: "Re-render the skymap overlay whenever the observation file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			rerender := func(ctx context.Context) error {
				obs, err := loadObservation(path)
				if err != nil {
					return err
				}
				o, err := f.overlay(obs, false)
				if err != nil {
					return err
				}
				out, err := a.renderer.SkymapOverlay(ctx, o)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return a.flushMetrics()
			}

			if err := rerender(cmd.Context()); err != nil {
				a.log.Error(cmd.Context(), "initial render failed", logger.Error(err))
			}

			fw, err := watch.NewFileWatcher(path, debounce, a.log.Named("watch"))
			if err != nil {
				return err
			}
			defer fw.Close()

			a.log.Info(cmd.Context(), "watching observation", logger.String("path", path))
			return fw.Run(cmd.Context(), rerender)
		},
	}
	f.bind(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
	return cmd
}
