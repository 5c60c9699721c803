package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the calculator's Prometheus collectors on a private registry,
// so tests can create as many as they like without clashing.
type Metrics struct {
	registry     *prometheus.Registry
	estimates    *prometheus.CounterVec
	chartRenders *prometheus.CounterVec
	scenarios    *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pasture_estimates_total",
			Help: "Estimates computed, by endpoint.",
		}, []string{"endpoint"}),
		chartRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pasture_chart_renders_total",
			Help: "Charts rendered, by chart name.",
		}, []string{"chart"}),
		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pasture_scenario_ops_total",
			Help: "Scenario store operations, by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	m.registry.MustRegister(m.estimates, m.chartRenders, m.scenarios)
	return m
}

// ObserveEstimate counts one estimate served by endpoint.
func (m *Metrics) ObserveEstimate(endpoint string) {
	m.estimates.WithLabelValues(endpoint).Inc()
}

// ObserveChart counts one rendered chart.
func (m *Metrics) ObserveChart(chart string) {
	m.chartRenders.WithLabelValues(chart).Inc()
}

// ObserveScenario counts one scenario store operation.
func (m *Metrics) ObserveScenario(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.scenarios.WithLabelValues(op, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
