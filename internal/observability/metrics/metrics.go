// Package metrics exposes application-level instruments, scraped over the
// server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

type Metrics struct {
	registry *prometheus.Registry

	cartAdmissions *prometheus.CounterVec
	reconcileRuns  *prometheus.CounterVec
	discountUnits  prometheus.Counter
}

const (
	OutcomeAdmitted = "admitted"

	ResultOK    = "ok"
	ResultError = "error"
)

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		cartAdmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seatsmith",
			Name:      "cart_admissions_total",
			Help:      "Cart add requests by outcome; denials carry the denial reason.",
		}, []string{"outcome"}),
		reconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seatsmith",
			Name:      "discount_reconcile_total",
			Help:      "Discount reconciliation passes by result.",
		}, []string{"result"}),
		discountUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seatsmith",
			Name:      "discount_units_granted_total",
			Help:      "Units of product granted a discount across all reconciliations.",
		}),
	}
	registry.MustRegister(m.cartAdmissions, m.reconcileRuns, m.discountUnits)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// IncAdmission records one cart add outcome: OutcomeAdmitted or a denial
// reason string.
func (m *Metrics) IncAdmission(outcome string) {
	m.cartAdmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncReconcile(result string) {
	m.reconcileRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) AddDiscountUnits(n int64) {
	if n > 0 {
		m.discountUnits.Add(float64(n))
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
