package migrations

import (
	"github.com/prometheus/client_golang/prometheus"

	m "github.com/onyx-go/schema/internal/metrics"
)

type metrics struct {
	// all metrics fields must be exported
	// to be able to return them by Metrics()
	// using reflection

	IndexesCreated     prometheus.Counter
	IndexesRemoved     prometheus.Counter
	IndexesRejected    *prometheus.CounterVec
	ExistenceChecks    prometheus.Counter
	StatementsExecuted prometheus.Counter
	StatementErrors    prometheus.Counter
}

func newMetrics() metrics {
	subsystem := "schema"

	return metrics{
		IndexesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "indexes_created_total",
			Help:      "Number of CREATE INDEX statements executed.",
		}),
		IndexesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "indexes_removed_total",
			Help:      "Number of DROP INDEX statements executed.",
		}),
		IndexesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "indexes_rejected_total",
			Help:      "Index definitions rejected before execution, by reason.",
		}, []string{"reason"}),
		ExistenceChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "index_existence_checks_total",
			Help:      "Number of index existence checks against the catalog.",
		}),
		StatementsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "statements_executed_total",
			Help:      "Number of DDL statements sent to the database.",
		}),
		StatementErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "statement_errors_total",
			Help:      "Number of DDL statements the database rejected.",
		}),
	}
}

func (sb *schemaBuilder) Metrics() []prometheus.Collector {
	return m.PrometheusCollectorsFromFields(sb.metrics)
}

func rejectionReason(kind ValidationKind) string {
	switch kind {
	case NameTooLong:
		return "name_too_long"
	case DuplicateIndexName:
		return "duplicate_name"
	default:
		return "other"
	}
}
