// Package metrics expone las métricas Prometheus del flujo de distribución.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
)

var _ appdist.Metrics = (*Metrics)(nil)

// Metrics contadores del ciclo de vida. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	// Transiciones por acción y resultado (committed, illegal_transition, unauthorized...)
	Transitions *prometheus.CounterVec

	// Documentos con discrepancia confirmados por el receptor
	Discrepancies prometheus.Counter

	// Documentos adicionales incluidos o excluidos al crear
	AutoInclusion *prometheus.CounterVec
}

// New registra las métricas en el registro global por defecto.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registra en reg (útil en pruebas con prometheus.NewRegistry()).
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "distribution_transitions_total",
			Help: "Transiciones del ciclo de vida por acción y resultado",
		}, []string{"action", "outcome"}),

		Discrepancies: f.NewCounter(prometheus.CounterOpts{
			Name: "distribution_receiver_discrepancies_total",
			Help: "Documentos reportados como missing o damaged en verificaciones confirmadas",
		}),

		AutoInclusion: f.NewCounterVec(prometheus.CounterOpts{
			Name: "distribution_auto_inclusion_documents_total",
			Help: "Documentos adicionales evaluados por la inclusión automática",
		}, []string{"result"}), // result: "included", "excluded"
	}
}

// IncrementTransition cuenta un intento de transición.
func (m *Metrics) IncrementTransition(action, outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(action, outcome).Inc()
	}
}

// ObserveDiscrepancies suma documentos con discrepancia.
func (m *Metrics) ObserveDiscrepancies(count int) {
	if m != nil && count > 0 {
		m.Discrepancies.Add(float64(count))
	}
}

// ObserveAutoInclusion suma documentos incluidos y excluidos.
func (m *Metrics) ObserveAutoInclusion(included, excluded int) {
	if m != nil {
		m.AutoInclusion.WithLabelValues("included").Add(float64(included))
		m.AutoInclusion.WithLabelValues("excluded").Add(float64(excluded))
	}
}
