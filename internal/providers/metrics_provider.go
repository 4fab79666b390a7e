package providers

import (
	"medilens/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncPersistenceWrites(tier string)
	IncGatewayCalls(source, outcome string)
	ObserveGatewayDuration(source string, duration time.Duration)
	SetHistorySize(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	persistenceWrites   *prometheus.CounterVec
	gatewayCalls        *prometheus.CounterVec
	gatewayDuration     *prometheus.HistogramVec
	historySize         prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceWrites(tier string) {
	m.persistenceWrites.WithLabelValues(tier).Inc()
}

func (m *MetricsProvider) IncGatewayCalls(source, outcome string) {
	m.gatewayCalls.WithLabelValues(source, outcome).Inc()
}

func (m *MetricsProvider) ObserveGatewayDuration(source string, duration time.Duration) {
	m.gatewayDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetHistorySize(count int) {
	m.historySize.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medilens_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medilens_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medilens_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medilens_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "medilens_persistence_duration_seconds",
			Help:    "Duration of history save operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medilens_persistence_writes_total",
			Help: "History saves by outcome tier (full, stripped, failed)",
		}, []string{"tier"}),

		gatewayCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medilens_gateway_calls_total",
			Help: "Analysis gateway calls by source and outcome",
		}, []string{"source", "outcome"}),

		gatewayDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medilens_gateway_duration_seconds",
			Help:    "Analysis gateway call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"source"}),

		historySize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "medilens_history_entries",
			Help: "Number of analyses in the in-memory history",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncPersistenceWrites(_ string)                    {}
func (n *noopMetrics) IncGatewayCalls(_, _ string)                      {}
func (n *noopMetrics) ObserveGatewayDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetHistorySize(_ int)                             {}
