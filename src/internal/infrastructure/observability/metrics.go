package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pos"

// ===========================
// Metrics
// ===========================

// Metrics 服務指標
//
// 同時實作 common.Recorder（業務指標）與 persistence.RetryObserver（事務重試）。
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TransactionRetries    *prometheus.CounterVec
	TransactionsFinalized *prometheus.CounterVec
	PackReleases          *prometheus.CounterVec
	EcOrdersPlaced        *prometheus.CounterVec
	EventsPublished       *prometheus.CounterVec
}

// NewMetrics 建立獨立 registry 的指標集合
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
	m.TransactionRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_retries_total",
			Help:      "Database transactions retried after a deadlock or version conflict",
		},
		[]string{"attempt"},
	)
	m.TransactionsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_finalized_total",
			Help:      "Sell and buy transactions finalized",
		},
		[]string{"kind"},
	)
	m.PackReleases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pack_releases_total",
			Help:      "Original packs opened into singles",
		},
		[]string{"store_id"},
	)
	m.EcOrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ec_orders_placed_total",
			Help:      "EC orders placed through checkout",
		},
		[]string{"store_id"},
	)
	m.EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker",
		},
		[]string{"topic", "status"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TransactionRetries,
		m.TransactionsFinalized,
		m.PackReleases,
		m.EcOrdersPlaced,
		m.EventsPublished,
	)
	return m
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 底層 registry（測試用）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest 記錄一次 HTTP 請求
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEventPublish 記錄事件發布結果
func (m *Metrics) RecordEventPublish(topic string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.EventsPublished.WithLabelValues(topic, status).Inc()
}

// TransactionRetried 實作 persistence.RetryObserver
func (m *Metrics) TransactionRetried(attempt int, _ error) {
	m.TransactionRetries.WithLabelValues(strconv.Itoa(attempt)).Inc()
}

// PackReleased 實作 common.Recorder
func (m *Metrics) PackReleased(storeID string) {
	m.PackReleases.WithLabelValues(storeID).Inc()
}

// TransactionFinalized 實作 common.Recorder
func (m *Metrics) TransactionFinalized(kind string) {
	m.TransactionsFinalized.WithLabelValues(kind).Inc()
}

// EcOrderPlaced 實作 common.Recorder
func (m *Metrics) EcOrderPlaced(storeID string) {
	m.EcOrdersPlaced.WithLabelValues(storeID).Inc()
}
