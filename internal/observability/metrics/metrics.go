package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	paymentWebhooks *prometheus.CounterVec
	smsDispatches   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mtandao_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mtandao_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		paymentWebhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mtandao_payment_webhooks_total",
			Help: "Payment webhook outcomes.",
		}, []string{"result"}),
		smsDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mtandao_sms_dispatches_total",
			Help: "Outbound SMS dispatch outcomes.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequests,
		m.httpDuration,
		m.paymentWebhooks,
		m.smsDispatches,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) ObserveHTTP(route, method string, status string, seconds float64) {
	if m == nil {
		return
	}
	route = strings.TrimSpace(route)
	if route == "" {
		route = "unknown"
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(seconds)
}

func (m *Metrics) PaymentWebhook(result string) {
	if m == nil {
		return
	}
	m.paymentWebhooks.WithLabelValues(result).Inc()
}

func (m *Metrics) SMSDispatch(result string) {
	if m == nil {
		return
	}
	m.smsDispatches.WithLabelValues(result).Inc()
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	return reg
}

func provideRegisterer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

var Module = fx.Module("observability.metrics",
	fx.Provide(provideRegistry),
	fx.Provide(provideRegisterer),
	fx.Provide(New),
)
