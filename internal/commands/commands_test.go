package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamletTheHamster/gammaplot/internal/preview"
	"github.com/HamletTheHamster/gammaplot/internal/render"
)

const crabRun = `{
  "obs_id": 2965,
  "pointing": {"lon": 83.633, "lat": 22.514, "frame": "icrs"},
  "rad_max": [0.08, 0.11],
  "events": [
    {"lon": 83.63, "lat": 22.01, "energy": 0.3, "time": 59000.1},
    {"lon": 83.64, "lat": 22.02, "energy": 1.2, "time": 59000.2},
    {"lon": 83.90, "lat": 22.60, "energy": 0.1, "time": 59000.3}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GAMMAPLOT_CONFIG", "")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSkymapCommand(t *testing.T) {
	dir := t.TempDir()
	obs := writeFile(t, dir, "run.json", crabRun)
	outDir := filepath.Join(dir, "plots")
	metricsFile := filepath.Join(dir, "gammaplot.prom")
	t.Setenv("GAMMAPLOT_METRICS_FILE", metricsFile)

	out, err := run(t, "skymap", obs, "--source", "83.633,22.014", "--n-off", "3", "-o", outDir)
	require.NoError(t, err)

	want := filepath.Join(outDir, "run_2965_theta_max_0.11_n_off_regions_3.png")
	assert.Equal(t, want, strings.TrimSpace(out))
	_, err = os.Stat(want)
	assert.NoError(t, err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `gammaplot_plots_rendered_total{kind="skymap"} 1`)
	assert.Contains(t, string(prom), "gammaplot_events_binned_total 3")
}

func TestSkymapCommandWithoutGnuplot(t *testing.T) {
	t.Setenv("PATH", "")
	dir := t.TempDir()
	obs := writeFile(t, dir, "run.json", crabRun)
	png := filepath.Join(dir, "run_2965_theta_max_0.11_n_off_regions_3.png")

	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "skymap")

	out, err = run(t, "skymap", obs, "--source", "83.633,22.014", "--n-off", "3", "-o", dir)
	require.NoError(t, err)
	assert.Equal(t, png, strings.TrimSpace(out))

	require.NoError(t, os.Remove(png))
	_, err = run(t, "skymap", obs, "--source", "83.633,22.014", "--n-off", "3", "-o", dir, "--show")
	require.ErrorIs(t, err, preview.ErrNoGnuplot)
	_, err = os.Stat(png)
	assert.NoError(t, err)
}

func TestSkymapCommandRequiresSource(t *testing.T) {
	dir := t.TempDir()
	obs := writeFile(t, dir, "run.json", crabRun)
	_, err := run(t, "skymap", obs, "-o", dir)
	assert.Error(t, err)
}

func TestRegionsCommand(t *testing.T) {
	dir := t.TempDir()
	obs := writeFile(t, dir, "run.json", crabRun)

	out, err := run(t, "regions", obs, "--source", "83.633,22.014", "--n-off", "3",
		"--source-name", "Crab", "--excluded-name", "zeta Tau", "--exclusion", "84.411,21.142")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "region\tlon\tlat\tradius\toffset", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "pointing\t83.6330\t22.5140\t-\t0.0000"))
	assert.True(t, strings.HasPrefix(lines[2], "on region\t83.6330\t22.0140\t0.1100\t0.5000"))
	for _, l := range lines[3:6] {
		cells := strings.Split(l, "\t")
		assert.True(t, strings.HasPrefix(cells[0], "off "))
		assert.Equal(t, "0.1100", cells[3])
		assert.Equal(t, "0.5000", cells[4])
	}
	assert.True(t, strings.HasPrefix(lines[6], "Crab\t"))
	assert.True(t, strings.HasPrefix(lines[7], "zeta Tau\t84.4110\t21.1420"))
	assert.True(t, strings.HasPrefix(lines[8], "excluded region\t84.4110\t21.1420\t0.3000"))
}

func TestRegionsCommandFrameMismatch(t *testing.T) {
	dir := t.TempDir()
	obs := writeFile(t, dir, "run.json", crabRun)
	_, err := run(t, "regions", obs, "--source", "184.557,-5.784", "--frame", "galactic")
	assert.Error(t, err)
}

func TestLightCurveCommand(t *testing.T) {
	dir := t.TempDir()
	series := writeFile(t, dir, "crab_lst.json", `{
  "flux_unit": "cm-2 s-1",
  "bins": [
    {"time_min": 59000, "time_max": 59001, "flux": 2.0e-10, "flux_err": 1.0e-11, "is_ul": false},
    {"time_min": 59001, "time_max": 59002, "is_ul": true, "flux_ul": 3.0e-10},
    {"time_min": 59002, "time_max": 59003, "flux": 2.5e-10, "flux_err": 2.0e-11, "is_ul": false}
  ]
}`)

	out, err := run(t, "lightcurve", series, "--labels", "LST-1", "--title", "Crab", "-o", dir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "lightcurve.png"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSEDCommand(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "model.json", `{
  "type": "PowerLaw",
  "reference": 1,
  "energy_unit": "TeV",
  "parameters": {"amplitude": 1e-11, "index": 2.0}
}`)
	points := writeFile(t, dir, "points.json", `{
  "energy_unit": "TeV",
  "sed_unit": "TeV cm-2 s-1",
  "points": [
    {"e_ref": 0.1, "e_min": 0.08, "e_max": 0.125, "e2dnde": 8.4e-11, "e2dnde_err": 5e-12},
    {"e_ref": 1.0, "e_min": 0.8, "e_max": 1.25, "e2dnde": 3.5e-11, "e2dnde_err": 2e-12},
    {"e_ref": 10, "e_min": 8, "e_max": 12.5, "e2dnde": 8.8e-12, "e2dnde_err": 1e-12},
    {"e_ref": 50, "e_min": 40, "e_max": 62.5, "e2dnde": 0, "is_ul": true, "e2dnde_ul": 4e-12}
  ]
}`)

	out, err := run(t, "sed", "--model", model, "--points", points, "--fit",
		"--emin", "50 GeV", "--emax", "30 TeV", "--label", "Crab", "-o", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sed.png"), strings.TrimSpace(out))
}

func TestSEDCommandBadEnergy(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "model.json", `{"type": "PowerLaw", "parameters": {"amplitude": 1e-11, "index": 2.0}}`)
	_, err := run(t, "sed", "--model", model, "--emin", "5 keV", "-o", dir)
	assert.Error(t, err)
}

func TestTableTSV(t *testing.T) {
	tbl := &table{header: []string{"a", "b"}}
	tbl.add("1", "2")
	var buf bytes.Buffer
	require.NoError(t, tbl.write(&buf))
	assert.Equal(t, "a\tb\n1\t2\n", buf.String())
}

func TestTableBordered(t *testing.T) {
	tbl := &table{header: []string{"region", "lon"}}
	tbl.add("蟹状星云", "84.4110")
	var buf bytes.Buffer
	require.NoError(t, tbl.writeBordered(&buf))
	assert.Equal(t, strings.Join([]string{
		"+----------+---------+",
		"| region   | lon     |",
		"+----------+---------+",
		"| 蟹状星云 | 84.4110 |",
		"+----------+---------+",
		"",
	}, "\n"), buf.String())
}

func TestSeriesDefaults(t *testing.T) {
	assert.Equal(t, "crab_lst", seriesLabel(nil, 0, "/data/crab_lst.json"))
	assert.Equal(t, "MAGIC", seriesLabel([]string{"LST-1", "MAGIC"}, 1, "x.json"))

	s := render.DefaultStyle()
	c, err := seriesColor(s, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, s.OffColor, c)

	_, err = seriesColor(s, []string{"nope"}, 0)
	assert.Error(t, err)
}
