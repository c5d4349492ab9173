package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meetingmap"

// NLP call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCacheHit = "cache_hit"
)

// Metrics holds every collector the service exports.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	nlpRequests   *prometheus.CounterVec
	nlpDuration   prometheus.Histogram
	searches      *prometheus.CounterVec
	searchResults prometheus.Histogram
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		nlpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nlp_requests_total",
			Help:      "Intent extraction lookups by outcome.",
		}, []string{"outcome"}),
		nlpDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nlp_request_duration_seconds",
			Help:      "Latency of calls to the intent extraction service.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Completed searches by which filters were applied.",
		}, []string{"neighborhood", "datetime"}),
		searchResults: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_result_count",
			Help:      "Number of location IDs returned per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveNLP records one intent extraction lookup. Cache hits carry no
// meaningful latency and are only counted.
func (m *Metrics) ObserveNLP(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.nlpRequests.WithLabelValues(outcome).Inc()
	if outcome != OutcomeCacheHit {
		m.nlpDuration.Observe(d.Seconds())
	}
}

// ObserveSearch records one completed search.
func (m *Metrics) ObserveSearch(neighborhood, datetime bool, results int) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(strconv.FormatBool(neighborhood), strconv.FormatBool(datetime)).Inc()
	m.searchResults.Observe(float64(results))
}
