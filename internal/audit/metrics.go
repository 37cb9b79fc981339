package audit

import (
	"github.com/prometheus/client_golang/prometheus"

	m "github.com/onyx-go/schema/internal/metrics"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection

	Runs           prometheus.Counter
	CheckErrors    prometheus.Counter
	MissingIndexes prometheus.Gauge
	LastRun        prometheus.Gauge
}

func newMetrics() metrics {
	subsystem := "audit"

	return metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Number of completed audit runs.",
		}),
		CheckErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "check_errors_total",
			Help:      "Number of existence checks that failed to read the catalog.",
		}),
		MissingIndexes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "missing_indexes",
			Help:      "Expected indexes not found by the last run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed audit run.",
		}),
	}
}

func (a *Auditor) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(a.metrics)
}
