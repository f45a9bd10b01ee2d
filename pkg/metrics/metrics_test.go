package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Created("padrao", 1)
	m.Created("especial", 2)
	m.Created("padrao", 3)
	m.Deleted(2)
	m.Rekey()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("padrao")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("especial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rekeyed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerOrders))

	m.ObserveRequest("/api/pedidos", http.MethodGet, 200, 10*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestTime))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Created("padrao", 1)
	m.Deleted(0)
	m.Rekey()
	m.ObserveRequest("/", http.MethodGet, 200, time.Second)
}

func TestStatusRecorder(t *testing.T) {
	rec := &StatusRecorder{ResponseWriter: httptest.NewRecorder(), Status: http.StatusOK}
	rec.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, rec.Status)
}
