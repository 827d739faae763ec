package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/gammaplot/internal/render"
	"github.com/HamletTheHamster/gammaplot/internal/sky"
)

func newRegionsCmd(a *app) *cobra.Command {
	var f overlayFlags
	cmd := &cobra.Command{
		Use:   "regions <observation.json>",
		Short: "Print the ON, OFF and exclusion regions of a run without drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obs, err := loadObservation(args[0])
			if err != nil {
				return err
			}
			o, err := f.overlay(obs, false)
			if err != nil {
				return err
			}
			layout, err := render.BuildOverlay(o)
			if err != nil {
				return err
			}
			return regionsTable(layout, o.SourceName, o.ExcludedSourceName).write(cmd.OutOrStdout())
		},
	}
	f.bind(cmd)
	return cmd
}

func regionsTable(l *render.OverlayLayout, sourceName, excludedName string) *table {
	t := &table{header: []string{"region", "lon", "lat", "radius", "offset"}}
	pointing := l.Pointing.Center

	row := func(name string, c sky.Coord, radius string) {
		offset, err := sky.Separation(pointing, c)
		off := "-"
		if err == nil {
			off = formatDeg(offset)
		}
		t.add(name, formatDeg(c.Lon), formatDeg(c.Lat), radius, off)
	}

	row(render.LabelPointing, pointing, "-")
	row(render.LabelOnRegion, l.On.Center, formatDeg(l.On.Radius))
	for i, off := range l.Off {
		row(fmt.Sprintf("off %d", i+1), off.Center, formatDeg(off.Radius))
	}
	row(sourceName, l.Source.Center, "-")
	row(excludedName, l.ExcludedSource.Center, "-")
	row(render.LabelExcludedRegion, l.Exclusion.Center, formatDeg(l.Exclusion.Radius))
	return t
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
