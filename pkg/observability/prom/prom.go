// Package prom implements the observability hooks with Prometheus metrics.
//
// Metrics are registered on the registry passed to [New], never on the
// global default registry, so several servers (or tests) can coexist in one
// process.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/gnparser/pkg/observability"
)

const namespace = "gnparser"

// Metrics holds every gnparser metric. It implements the parse, cache and
// HTTP hook interfaces.
type Metrics struct {
	namesTotal    *prometheus.CounterVec
	nameQuality   *prometheus.HistogramVec
	parseDuration prometheus.Histogram

	batchesTotal   prometheus.Counter
	batchSize      prometheus.Histogram
	batchOutputs   *prometheus.CounterVec
	batchDuration  prometheus.Histogram
	batchFailures  prometheus.Counter
	cacheOpsTotal  *prometheus.CounterVec
	cacheSetBytes  *prometheus.HistogramVec
	cacheErrors    *prometheus.CounterVec
	inflight       prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		namesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "names_total",
			Help:      "Names that went through the parser.",
		}, []string{"code", "parsed"}),
		nameQuality: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "name_quality",
			Help:      "Quality of parsed names (0 unparsed, 1 best, 4 worst).",
			Buckets:   []float64{0, 1, 2, 3, 4},
		}, []string{"code"}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time taken to parse one name.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10), // 1µs to ~260ms
		}),
		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batches started.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Entries per batch, including missing entries.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9), // 1 to 65536
		}),
		batchOutputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_outputs_total",
			Help:      "Batch output slots by kind.",
		}, []string{"kind"}), // kind: parsed, missing, fault
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time taken to process a batch.",
			Buckets:   prometheus.DefBuckets,
		}),
		batchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_failures_total",
			Help:      "Batches that ended with an error, such as cancellation.",
		}),
		cacheOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Result cache lookups and writes.",
		}, []string{"backend", "result"}), // result: hit, miss, set
		cacheSetBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_set_bytes",
			Help:      "Size of cached results.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		}, []string{"backend"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_errors_total",
			Help:      "Failed result cache operations.",
		}, []string{"backend", "op"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if err := reg.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Register installs m as the process-wide parse, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetParseHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.namesTotal, m.nameQuality, m.parseDuration,
		m.batchesTotal, m.batchSize, m.batchOutputs, m.batchDuration, m.batchFailures,
		m.cacheOpsTotal, m.cacheSetBytes, m.cacheErrors,
		m.inflight, m.requestsTotal, m.requestLatency,
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func codeLabel(code string) string {
	if code == "" {
		return "none"
	}
	return code
}

func (m *Metrics) OnParse(_ context.Context, code string, parsed bool, quality int, d time.Duration) {
	code = codeLabel(code)
	m.namesTotal.WithLabelValues(code, strconv.FormatBool(parsed)).Inc()
	m.nameQuality.WithLabelValues(code).Observe(float64(quality))
	m.parseDuration.Observe(d.Seconds())
}

func (m *Metrics) OnBatchStart(_ context.Context, size int) {
	m.batchesTotal.Inc()
	m.batchSize.Observe(float64(size))
}

func (m *Metrics) OnBatchComplete(_ context.Context, parsed, missing, faults int, d time.Duration, err error) {
	m.batchOutputs.WithLabelValues("parsed").Add(float64(parsed))
	m.batchOutputs.WithLabelValues("missing").Add(float64(missing))
	m.batchOutputs.WithLabelValues("fault").Add(float64(faults))
	m.batchDuration.Observe(d.Seconds())
	if err != nil {
		m.batchFailures.Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, backend string) {
	m.cacheOpsTotal.WithLabelValues(backend, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, backend string) {
	m.cacheOpsTotal.WithLabelValues(backend, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, backend string, size int) {
	m.cacheOpsTotal.WithLabelValues(backend, "set").Inc()
	m.cacheSetBytes.WithLabelValues(backend).Observe(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, backend, op string, _ error) {
	m.cacheErrors.WithLabelValues(backend, op).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inflight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inflight.Dec()
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.ParseHooks = (*Metrics)(nil)
	_ observability.CacheHooks = (*Metrics)(nil)
	_ observability.HTTPHooks  = (*Metrics)(nil)
)
