// Package observability provides Prometheus metrics and logger setup.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scenario metrics
	ScenarioRunsTotal  *prometheus.CounterVec
	ScenarioDuration   *prometheus.HistogramVec
	IterationsTotal    *prometheus.CounterVec
	IterationFailures  *prometheus.CounterVec
	ShocksGenerated    prometheus.Counter
	RunsInFlight       prometheus.Gauge
	PortfolioRunsTotal *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	return newMetrics(promauto.With(prometheus.DefaultRegisterer), namespace)
}

// NewMetricsWithRegistry registers metrics on reg instead of the default registerer.
func NewMetricsWithRegistry(reg prometheus.Registerer, namespace string) *Metrics {
	return newMetrics(promauto.With(reg), namespace)
}

func newMetrics(f promauto.Factory, namespace string) *Metrics {
	if namespace == "" {
		namespace = "startup_risk_lab"
	}

	return &Metrics{
		// Scenario metrics
		ScenarioRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "runs_total",
			Help:      "Total number of scenario runs by domain and final state",
		}, []string{"domain", "state"}),
		ScenarioDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "duration_seconds",
			Help:      "Scenario run duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
		}, []string{"domain"}),
		IterationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "iterations_total",
			Help:      "Total number of completed Monte-Carlo iterations",
		}, []string{"domain"}),
		IterationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "iteration_failures_total",
			Help:      "Total number of iterations that failed",
		}, []string{"domain"}),
		ShocksGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "shocks_generated_total",
			Help:      "Total number of shocks applied across iterations",
		}),
		RunsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scenario",
			Name:      "runs_in_flight",
			Help:      "Number of scenario runs currently executing",
		}),
		PortfolioRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "runs_total",
			Help:      "Total number of portfolio simulations by kind",
		}, []string{"kind"}),

		// Cache metrics
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of result cache hits",
		}, []string{"backend"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of result cache misses",
		}, []string{"backend"}),

		// Database metrics
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last completed scenario run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RunStarted increments the in-flight gauge. Pair with RecordScenarioRun.
func RunStarted() {
	DefaultMetrics.RunsInFlight.Inc()
}

// RecordScenarioRun records a finished scenario run.
func RecordScenarioRun(domainKey, state string, d time.Duration) {
	DefaultMetrics.RunsInFlight.Dec()
	DefaultMetrics.ScenarioRunsTotal.WithLabelValues(domainKey, state).Inc()
	DefaultMetrics.ScenarioDuration.WithLabelValues(domainKey).Observe(d.Seconds())
	if state == "COMPLETED" {
		DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordIterations adds completed iterations and the shocks they applied.
func RecordIterations(domainKey string, iterations, shocks int) {
	DefaultMetrics.IterationsTotal.WithLabelValues(domainKey).Add(float64(iterations))
	DefaultMetrics.ShocksGenerated.Add(float64(shocks))
}

// RecordIterationFailure increments the iteration failure counter.
func RecordIterationFailure(domainKey string) {
	DefaultMetrics.IterationFailures.WithLabelValues(domainKey).Inc()
}

// RecordPortfolioRun records a portfolio simulation ("simulate", "stress", "monte_carlo").
func RecordPortfolioRun(kind string) {
	DefaultMetrics.PortfolioRunsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a result cache hit or miss.
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		DefaultMetrics.CacheHits.WithLabelValues(backend).Inc()
		return
	}
	DefaultMetrics.CacheMisses.WithLabelValues(backend).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
