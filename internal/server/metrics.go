package server

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	quoteRequests  *prometheus.CounterVec
	simulationRuns *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		quoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pressconfig_quote_requests_total",
			Help: "Quote requests by outcome.",
		}, []string{"outcome"}),
		simulationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pressconfig_simulation_runs_total",
			Help: "Simulation runs by final status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.quoteRequests, m.simulationRuns)
	return m
}
