package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/dtroode/foodtracker-migrator/internal/model"
)

var _ model.MigrationMetrics = (*Metrics)(nil)

// Metrics collects migration metrics on its own registry so a run can push
// exactly what it recorded.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	recordsTotal *prometheus.CounterVec
	warnings     prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "food_migration_runs_total",
			Help: "Total number of migration runs by outcome and last stage reached",
		}, []string{"outcome", "stage"}),

		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "food_migration_run_duration_seconds",
			Help:    "Migration run duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),

		recordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "food_migration_records_total",
			Help: "Total number of records written to the target per table",
		}, []string{"table"}),

		warnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "food_migration_warnings_total",
			Help: "Total number of non-fatal migration warnings",
		}),
	}
}

func (m *Metrics) ObserveRun(outcome model.State, stage model.State, duration time.Duration) {
	m.runsTotal.WithLabelValues(string(outcome), string(stage)).Inc()
	m.runDuration.WithLabelValues(string(outcome)).Observe(duration.Seconds())
}

func (m *Metrics) AddRecords(table string, count int) {
	m.recordsTotal.WithLabelValues(table).Add(float64(count))
}

func (m *Metrics) AddWarnings(count int) {
	m.warnings.Add(float64(count))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push sends everything collected so far to a Prometheus Pushgateway.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
