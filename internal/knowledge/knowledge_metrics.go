package knowledge

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the knowledge responder.
type Metrics struct {
	AnswersTotal  *prometheus.CounterVec
	PacingSeconds prometheus.Histogram
}

// NewMetrics registers and returns knowledge metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnswersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caduceus_knowledge_answers_total",
			Help: "Total answered queries by dispatch rule and answer type.",
		}, []string{"rule", "type"}),
		PacingSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "caduceus_knowledge_pacing_seconds",
			Help:    "Time spent in the pacing delay before an answer is returned.",
			Buckets: []float64{0, 0.25, 0.5, 0.8, 1, 1.25, 1.5, 1.75, 2, 2.5},
		}),
	}

	reg.MustRegister(m.AnswersTotal, m.PacingSeconds)
	return m
}
