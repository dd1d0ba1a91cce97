package di

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics counts container activity. A nil *metrics records nothing.
type metrics struct {
	constructionsTotal        *prometheus.CounterVec
	eagerCreationsTotal       prometheus.Counter
	conditionalProvidersTotal *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}

	m := &metrics{
		constructionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "di",
				Name:      "constructions_total",
				Help:      "Total number of constructor calls",
			},
			[]string{"scope", "color"},
		),
		eagerCreationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "di",
				Name:      "eager_creations_total",
				Help:      "Total number of instances created by a flush",
			},
		),
		conditionalProvidersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "di",
				Name:      "conditional_providers_total",
				Help:      "Total number of evaluated provider conditions",
			},
			[]string{"admitted"},
		),
	}

	m.constructionsTotal = register(reg, m.constructionsTotal)
	m.eagerCreationsTotal = register(reg, m.eagerCreationsTotal)
	m.conditionalProvidersTotal = register(reg, m.conditionalProvidersTotal)
	return m
}

// register registers c, or returns the collector already registered in its place.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) constructed(def Definition) {
	if m == nil {
		return
	}
	m.constructionsTotal.WithLabelValues(def.Scope.String(), def.Color.String()).Inc()
}

func (m *metrics) eagerCreated() {
	if m == nil {
		return
	}
	m.eagerCreationsTotal.Inc()
}

func (m *metrics) conditionEvaluated(admitted bool) {
	if m == nil {
		return
	}
	m.conditionalProvidersTotal.WithLabelValues(strconv.FormatBool(admitted)).Inc()
}
