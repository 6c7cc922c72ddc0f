package credentials

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "awscreds"

// Metrics records the outcome of credential fetches. A nil *Metrics records
// nothing.
type Metrics struct {
	reloads *prometheus.CounterVec
	ttl     prometheus.Gauge
	inError prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reloads_total",
			Help:      "Credential fetches by result.",
		}, []string{"result"}),
		ttl: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "credentials_ttl_seconds",
			Help:      "TTL granted by the last successful fetch.",
		}),
		inError: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "credentials_error",
			Help:      "1 while the last fetch failed, 0 otherwise.",
		}),
	}
}

func (m *Metrics) observeSuccess(ttl time.Duration) {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues("success").Inc()
	m.ttl.Set(ttl.Seconds())
	m.inError.Set(0)
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.reloads.WithLabelValues("failure").Inc()
	m.inError.Set(1)
}
