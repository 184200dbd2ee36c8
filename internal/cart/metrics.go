package cart

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Mutations *prometheus.CounterVec
	Signals   *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_mutations_total",
				Help: "Cart mutations by operation",
			},
			[]string{"op"},
		),
		Signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_refresh_signals_total",
				Help: "Refresh signals published by type",
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(m.Mutations, m.Signals)
	return m
}

func (m *Metrics) mutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) signal(t EventType) {
	if m == nil {
		return
	}
	m.Signals.WithLabelValues(string(t)).Inc()
}
