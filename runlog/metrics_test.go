package runlog

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Collect(t *testing.T) {
	l, _ := newTestLogger(t)

	l.LogEvent("task_started", map[string]any{})
	zl := zap.New(l.Core())
	zl.Named("agent").Info("step")
	zl.Named("agent").Warn("slow step")

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewMetrics(l)))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			if m.GetCounter() != nil {
				byName[key] = m.GetCounter().GetValue()
			} else if m.GetGauge() != nil {
				byName[key] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, float64(1), byName["agentrun_log_entries_total/EVENT"])
	assert.Equal(t, float64(1), byName["agentrun_log_entries_total/INFO"])
	assert.Equal(t, float64(1), byName["agentrun_log_entries_total/WARNING"])
	assert.Equal(t, float64(1), byName["agentrun_events_total/task_started"])
	assert.Contains(t, byName, "agentrun_run_duration_seconds")
}
