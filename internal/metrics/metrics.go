// Package metrics содержит Prometheus-метрики маркетплейса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — набор метрик сервиса.
type Metrics struct {
	transitions   *prometheus.CounterVec
	gatewayCalls  *prometheus.CounterVec
	gatewayTiming *prometheus.HistogramVec
	finalizations *prometheus.CounterVec
	httpRequests  *prometheus.HistogramVec
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "ledger_transitions_total",
			Help:      "Applied status transitions by entity and target status.",
		}, []string{"entity", "to"}),
		gatewayCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "gateway_requests_total",
			Help:      "Payment gateway calls by call and outcome.",
		}, []string{"call", "outcome"}),
		gatewayTiming: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "marketplace",
			Name:      "gateway_request_duration_seconds",
			Help:      "Payment gateway call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call"}),
		finalizations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      "payment_finalizations_total",
			Help:      "Gateway transactions moved to a terminal status by source.",
		}, []string{"source", "status"}),
		httpRequests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "marketplace",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

// Noop возвращает метрики на отдельном реестре, не влияющем на /metrics.
func Noop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Transition учитывает применённый переход статуса.
func (m *Metrics) Transition(entity, to string) {
	m.transitions.WithLabelValues(entity, to).Inc()
}

// GatewayCall учитывает вызов шлюза.
func (m *Metrics) GatewayCall(call string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.gatewayCalls.WithLabelValues(call, outcome).Inc()
	m.gatewayTiming.WithLabelValues(call).Observe(time.Since(started).Seconds())
}

// Finalization учитывает перевод транзакции в окончательный статус.
func (m *Metrics) Finalization(source, status string) {
	m.finalizations.WithLabelValues(source, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware измеряет длительность запросов по шаблону маршрута chi.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(started).Seconds())
	})
}
