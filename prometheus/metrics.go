package prometheus

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/abczzz13/reqguard/ipfilter"
)

const decisionsMetric = "ip_access_decisions_total"

// PrometheusMetrics is a Prometheus-backed implementation of ipfilter.Metrics.
type PrometheusMetrics struct {
	decisions *prom.CounterVec
}

// WithMetrics returns an ipfilter option that installs Prometheus-backed
// metrics using prom.DefaultRegisterer.
func WithMetrics() ipfilter.Option {
	return withMetricsFactory(New)
}

// WithRegisterer returns an ipfilter option that installs Prometheus-backed
// metrics using the provided registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used.
func WithRegisterer(registerer prom.Registerer) ipfilter.Option {
	return withMetricsFactory(func() (*PrometheusMetrics, error) {
		return NewWithRegisterer(registerer)
	})
}

func withMetricsFactory(factory func() (*PrometheusMetrics, error)) ipfilter.Option {
	return ipfilter.WithMetricsFactory(func() (ipfilter.Metrics, error) {
		metrics, err := factory()
		if err != nil {
			return nil, err
		}
		return metrics, nil
	})
}

// New creates PrometheusMetrics and registers its collectors on
// prom.DefaultRegisterer.
func New() (*PrometheusMetrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer creates PrometheusMetrics and registers its collectors on
// the given registerer.
//
// If registerer is nil, prom.DefaultRegisterer is used. If the metrics are
// already registered, existing compatible collectors are reused.
func NewWithRegisterer(registerer prom.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	collector := prom.NewCounterVec(
		prom.CounterOpts{
			Name: decisionsMetric,
			Help: "Total number of IP filter decisions by decision (allow, deny) and reason.",
		},
		[]string{"decision", "reason"},
	)

	decisions, err := registerCounterVec(registerer, collector, decisionsMetric)
	if err != nil {
		return nil, err
	}

	return &PrometheusMetrics{decisions: decisions}, nil
}

func registerCounterVec(registerer prom.Registerer, collector *prom.CounterVec, metricName string) (*prom.CounterVec, error) {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prom.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(*prom.CounterVec)
			if ok {
				return existing, nil
			}
			return nil, fmt.Errorf("metric %q already registered with incompatible collector type %T", metricName, alreadyRegistered.ExistingCollector)
		}

		return nil, fmt.Errorf("register metric %q: %w", metricName, err)
	}

	return collector, nil
}

// RecordDecision increments ip_access_decisions_total for the decision and
// reason.
func (m *PrometheusMetrics) RecordDecision(decision ipfilter.Decision, reason string) {
	m.decisions.WithLabelValues(decision.String(), reason).Inc()
}
