package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRender(t *testing.T) {
	m := New()

	m.ObserveRender(KindSkymap, 120*time.Millisecond, nil)
	m.ObserveRender(KindSkymap, 80*time.Millisecond, nil)
	m.ObserveRender(KindSED, time.Second, errors.New("save failed"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.plotsRendered.WithLabelValues(KindSkymap)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.plotsRendered.WithLabelValues(KindSED)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renderErrors.WithLabelValues(KindSED)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.renderDuration))
}

func TestObserveCounts(t *testing.T) {
	m := New(WithNamespace("test"))
	m.ObserveCounts(90, 10)
	m.ObserveCounts(5, 0)

	assert.Equal(t, 95.0, testutil.ToFloat64(m.eventsBinned))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.eventsOutside))
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	m.ObserveRender(KindLightCurve, time.Millisecond, nil)
	m.ObserveCounts(1, 1)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRender(KindLightCurve, 10*time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "gammaplot.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `gammaplot_plots_rendered_total{kind="lightcurve"} 1`))
}
