package runlog

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 把运行级日志统计暴露为 Prometheus 指标，供长时间运行的
// Agent 任务通过调试监听端口观察进度。采集时实时取 Summary 快照，
// 不在记录热路径上做任何事。
type Metrics struct {
	logger *Logger

	entriesDesc  *prometheus.Desc
	eventsDesc   *prometheus.Desc
	durationDesc *prometheus.Desc
}

var _ prometheus.Collector = (*Metrics)(nil)

// NewMetrics 创建绑定到指定记录器的指标采集器。
func NewMetrics(l *Logger) *Metrics {
	return &Metrics{
		logger: l,
		entriesDesc: prometheus.NewDesc(
			"agentrun_log_entries_total",
			"Captured log entries by level for the current run",
			[]string{"level"}, nil,
		),
		eventsDesc: prometheus.NewDesc(
			"agentrun_events_total",
			"Manually emitted milestone events by type for the current run",
			[]string{"event_type"}, nil,
		),
		durationDesc: prometheus.NewDesc(
			"agentrun_run_duration_seconds",
			"Elapsed time since the run logger was opened",
			nil, nil,
		),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.entriesDesc
	ch <- m.eventsDesc
	ch <- m.durationDesc
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	s := m.logger.Summary()
	for level, n := range s.ByLevel {
		ch <- prometheus.MustNewConstMetric(m.entriesDesc, prometheus.CounterValue, float64(n), level)
	}
	for eventType, n := range s.ByEventType {
		ch <- prometheus.MustNewConstMetric(m.eventsDesc, prometheus.CounterValue, float64(n), eventType)
	}
	ch <- prometheus.MustNewConstMetric(m.durationDesc, prometheus.GaugeValue, s.DurationSeconds)
}
