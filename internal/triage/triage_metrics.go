package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	AssessmentsTotal *prometheus.CounterVec
	AssessmentScore  prometheus.Histogram
	CatalogMatches   *prometheus.CounterVec
	VitalAlerts      *prometheus.CounterVec
	AdmissionsTotal  *prometheus.CounterVec
	DispatchTotal    *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caduceus_triage_assessments_total",
			Help: "Total triage assessments by priority level and recommended department.",
		}, []string{"level", "department"}),
		AssessmentScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "caduceus_triage_score",
			Help:    "Final priority score per assessment.",
			Buckets: prometheus.LinearBuckets(1, 1, 10), // 1 .. 10
		}),
		CatalogMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caduceus_triage_catalog_matches_total",
			Help: "Assessments by whether any catalog symptom matched.",
		}, []string{"matched"}),
		VitalAlerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caduceus_triage_alerts_total",
			Help: "Alerts raised by assessments, by alert text.",
		}, []string{"alert"}),
		AdmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caduceus_triage_admissions_total",
			Help: "Total intake submissions by result.",
		}, []string{"result"}),
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caduceus_triage_dispatch_total",
			Help: "Background dispatches of admitted records by channel and status.",
		}, []string{"channel", "status"}),
	}

	reg.MustRegister(
		m.AssessmentsTotal,
		m.AssessmentScore,
		m.CatalogMatches,
		m.VitalAlerts,
		m.AdmissionsTotal,
		m.DispatchTotal,
	)

	return m
}

// ObserveAssessment records a completed assessment.
func (m *Metrics) ObserveAssessment(a Assessment) {
	m.AssessmentsTotal.WithLabelValues(string(a.PriorityLevel), a.RecommendedDepartment).Inc()
	m.AssessmentScore.Observe(float64(a.PriorityScore))
	matched := "false"
	if len(a.MatchedSymptoms) > 0 {
		matched = "true"
	}
	m.CatalogMatches.WithLabelValues(matched).Inc()
	// alert strings come from a fixed set, so cardinality stays bounded
	for _, alert := range a.Alerts {
		m.VitalAlerts.WithLabelValues(alert).Inc()
	}
}
