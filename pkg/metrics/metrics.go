// Package metrics holds the prometheus collectors of the pizzeria service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pizzaria"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	LedgerOrders  prometheus.Gauge
	OrdersCreated *prometheus.CounterVec
	OrdersDeleted prometheus.Counter
	Rekeyed       prometheus.Counter
	RequestTime   *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LedgerOrders: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_orders",
			Help:      "Orders currently held in the ledger.",
		}),
		OrdersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders created, by kind.",
		}, []string{"tipo"}),
		OrdersDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_deleted_total",
			Help:      "Orders deleted.",
		}),
		Rekeyed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rekeyed_total",
			Help:      "Orders whose estimated time key collided and was re-derived.",
		}),
		RequestTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
	}
}

func (m *Metrics) Created(kind string, ledgerSize int) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(kind).Inc()
	m.LedgerOrders.Set(float64(ledgerSize))
}

func (m *Metrics) Deleted(ledgerSize int) {
	if m == nil {
		return
	}
	m.OrdersDeleted.Inc()
	m.LedgerOrders.Set(float64(ledgerSize))
}

func (m *Metrics) Rekey() {
	if m == nil {
		return
	}
	m.Rekeyed.Inc()
}

// ObserveRequest records one request. route is the matched route template.
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestTime.WithLabelValues(route, method, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}
