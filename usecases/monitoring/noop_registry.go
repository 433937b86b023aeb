package monitoring

import "github.com/prometheus/client_golang/prometheus"

var noop prometheus.Registerer = &NoopPrometheusRegistry{}

// NoopPrometheusRegistry is a no-op registry mainly used to disable metrics
// registration when monitoring is disabled.
type NoopPrometheusRegistry struct{}

func (n *NoopPrometheusRegistry) Register(prometheus.Collector) error {
	return nil
}

func (n *NoopPrometheusRegistry) MustRegister(...prometheus.Collector) {
}

func (n *NoopPrometheusRegistry) Unregister(prometheus.Collector) bool {
	return true
}
