// Package metrics Prometheus counters for sheet loads, plan edits and composed orders.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the use case layer reports into. Nop satisfies it for tests.
type Recorder interface {
	SheetFetched(source string, d time.Duration, rows int, err error)
	SchemaRejected(column string)
	PlanChanged(action string)
	OrderComposed(kind string)
	SessionsPurged(n int)
}

// Metrics prometheus-backed Recorder with its own registry
type Metrics struct {
	registry *prometheus.Registry

	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	schemaErrors  *prometheus.CounterVec
	catalogRows   prometheus.Gauge
	planChanges   *prometheus.CounterVec
	orders        *prometheus.CounterVec
	purged        prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aroma",
			Name:      "sheet_fetch_seconds",
			Help:      "Spreadsheet fetch latency by source.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"source"}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aroma",
			Name:      "sheet_fetch_errors_total",
			Help:      "Failed spreadsheet fetches by source.",
		}, []string{"source"}),
		schemaErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aroma",
			Name:      "schema_errors_total",
			Help:      "Catalog loads rejected because a required column is missing.",
		}, []string{"column"}),
		catalogRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aroma",
			Name:      "catalog_rows",
			Help:      "Rows in the last successfully loaded catalog.",
		}),
		planChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aroma",
			Name:      "plan_changes_total",
			Help:      "Ledger edits by action.",
		}, []string{"action"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aroma",
			Name:      "orders_composed_total",
			Help:      "Composed order messages by kind.",
		}, []string{"kind"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aroma",
			Name:      "sessions_purged_total",
			Help:      "Idle sessions dropped together with their plans.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetchDuration, m.fetchErrors, m.schemaErrors, m.catalogRows, m.planChanges, m.orders, m.purged,
	)
	return m
}

// Handler /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SheetFetched(source string, d time.Duration, rows int, err error) {
	m.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.fetchErrors.WithLabelValues(source).Inc()
		return
	}
	m.catalogRows.Set(float64(rows))
}

func (m *Metrics) SchemaRejected(column string) { m.schemaErrors.WithLabelValues(column).Inc() }

func (m *Metrics) PlanChanged(action string) { m.planChanges.WithLabelValues(action).Inc() }

func (m *Metrics) OrderComposed(kind string) { m.orders.WithLabelValues(kind).Inc() }

func (m *Metrics) SessionsPurged(n int) { m.purged.Add(float64(n)) }

// Nop discards everything
type Nop struct{}

func (Nop) SheetFetched(string, time.Duration, int, error) {}
func (Nop) SchemaRejected(string) {}
func (Nop) PlanChanged(string) {}
func (Nop) OrderComposed(string) {}
func (Nop) SessionsPurged(int) {}
