// Package metrics exposes Prometheus counters for the restriction vertical.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all restriction counters. A nil *Metrics is safe to call, so
// services can run without metrics wired (tests, embedded use).
type Metrics struct {
	verdicts          *prometheus.CounterVec
	settingsSaves     *prometheus.CounterVec
	methodsFiltered   prometheus.Counter
	auditWriteFailure prometheus.Counter
}

// New creates and registers all restriction metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shiprestrict_verdicts_total",
			Help: "Restriction verdicts by outcome (passed, excluded, not_allowed).",
		}, []string{"outcome"}),
		settingsSaves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shiprestrict_settings_saves_total",
			Help: "Admin settings saves by result (ok, error).",
		}, []string{"result"}),
		methodsFiltered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiprestrict_methods_filtered_total",
			Help: "Shipping methods dropped by the mode filter.",
		}),
		auditWriteFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shiprestrict_audit_write_failures_total",
			Help: "Order audit entries that could not be persisted.",
		}),
	}
}

// ObserveVerdict counts one evaluation outcome.
func (m *Metrics) ObserveVerdict(outcome string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(outcome).Inc()
}

// ObserveSave counts one settings save attempt.
func (m *Metrics) ObserveSave(result string) {
	if m == nil {
		return
	}
	m.settingsSaves.WithLabelValues(result).Inc()
}

// ObserveFiltered counts methods dropped at checkout.
func (m *Metrics) ObserveFiltered(dropped int) {
	if m == nil || dropped <= 0 {
		return
	}
	m.methodsFiltered.Add(float64(dropped))
}

// ObserveAuditWriteFailure counts one failed audit append.
func (m *Metrics) ObserveAuditWriteFailure() {
	if m == nil {
		return
	}
	m.auditWriteFailure.Inc()
}
