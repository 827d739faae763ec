package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSkymapCmd(a *app) *cobra.Command {
	var f overlayFlags
	cmd := &cobra.Command{
		Use:   "skymap <observation.json>",
		Short: "Draw the ON, OFF and exclusion regions on the counts map of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := loadObservation(args[0])
			if err != nil {
				return err
			}
			o, err := f.overlay(obs, a.show)
			if err != nil {
				return err
			}
			path, err := a.renderer.SkymapOverlay(cmd.Context(), o)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}
