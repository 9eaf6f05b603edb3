package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for the fines service. Every method is safe
// to call on a nil *Metrics so services can run without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	SearchesTotal        *prometheus.CounterVec
	SearchResults        prometheus.Histogram
	RegistrationsTotal   prometheus.Counter
	LoginsTotal          *prometheus.CounterVec
	PaymentSessions      prometheus.Counter
	PaymentNotifications *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
	SessionsPurged       prometheus.Counter
	HTTPDuration         *prometheus.HistogramVec
}

// New registers every fines metric on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finepay_searches_total",
			Help: "Fine searches by matching mode (single or multi)",
		}, []string{"mode"}),
		SearchResults: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "finepay_search_results",
			Help:    "Number of fines returned per search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		}),
		RegistrationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "finepay_registrations_total",
			Help: "Total number of accounts registered",
		}),
		LoginsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finepay_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		PaymentSessions: f.NewCounter(prometheus.CounterOpts{
			Name: "finepay_payment_sessions_total",
			Help: "Total number of payment sessions created",
		}),
		PaymentNotifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finepay_payment_notifications_total",
			Help: "Gateway notifications by reported payment status",
		}, []string{"status"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "finepay_cache_lookups_total",
			Help: "View cache lookups by kind and result (hit or miss)",
		}, []string{"kind", "result"}),
		SessionsPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "finepay_payment_sessions_purged_total",
			Help: "Payment sessions removed by housekeeping",
		}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finepay_http_request_duration_seconds",
			Help:    "HTTP request duration by route pattern, method and status",
			Buckets: latencyBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveSearch(mode string, results int) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(mode).Inc()
	m.SearchResults.Observe(float64(results))
}

func (m *Metrics) IncrementRegistrations() {
	if m == nil {
		return
	}
	m.RegistrationsTotal.Inc()
}

// ObserveLogin records a login attempt. outcome is "success" or "failure".
func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementPaymentSessions() {
	if m == nil {
		return
	}
	m.PaymentSessions.Inc()
}

func (m *Metrics) ObservePaymentNotification(status string) {
	if m == nil {
		return
	}
	m.PaymentNotifications.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) AddSessionsPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsPurged.Add(float64(n))
}

// ObserveHTTP records the duration of a request that started at start.
func (m *Metrics) ObserveHTTP(route, method string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(route, method, httpStatus(status)).Observe(time.Since(start).Seconds())
}

func httpStatus(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
