package triage

import "time"

// Urgency is the clinical urgency class attached to a catalog symptom.
type Urgency string

const (
	UrgencyImmediate  Urgency = "immediate"
	UrgencyUrgent     Urgency = "urgent"
	UrgencySemiUrgent Urgency = "semi-urgent"
	UrgencyNonUrgent  Urgency = "non-urgent"
)

// Gender is recorded on intake. It does not influence the score.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

// ParseGender maps free-form input onto a Gender, defaulting to GenderUnknown.
func ParseGender(s string) Gender {
	switch Gender(s) {
	case GenderMale, GenderFemale, GenderOther:
		return Gender(s)
	default:
		return GenderUnknown
	}
}

// PriorityLevel is derived from the final score via fixed thresholds.
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "critical"
	PriorityHigh     PriorityLevel = "high"
	PriorityMedium   PriorityLevel = "medium"
	PriorityLow      PriorityLevel = "low"
)

// VitalSigns is an optional measurement bundle. A nil field means the
// measurement was not taken, not that it was normal.
type VitalSigns struct {
	Temperature            *float64 `json:"temperature,omitempty"`
	HeartRate              *int     `json:"heart_rate,omitempty"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	OxygenSaturation       *int     `json:"oxygen_saturation,omitempty"`
	RespiratoryRate        *int     `json:"respiratory_rate,omitempty"`
}

// Request is the input to a triage assessment.
type Request struct {
	Symptoms string      `json:"symptoms"`
	Age      int         `json:"age"`
	Gender   Gender      `json:"gender"`
	Vitals   *VitalSigns `json:"vitals,omitempty"`
}

// Assessment is the output of the scorer. It is built fresh per call.
type Assessment struct {
	PriorityScore         int           `json:"priority_score"`
	PriorityLevel         PriorityLevel `json:"priority_level"`
	PriorityColor         string        `json:"priority_color"`
	EstimatedWaitMinutes  int           `json:"estimated_wait_minutes"`
	RecommendedDepartment string        `json:"recommended_department"`
	Category              string        `json:"category"`
	MatchedSymptoms       []string      `json:"matched_symptoms,omitempty"`
	Reasoning             []string      `json:"reasoning"`
	Alerts                []string      `json:"alerts"`
	ConfidencePercent     int           `json:"confidence_percent"`
}

// Status tracks a patient record through the waiting room.
type Status string

const (
	// StatusWaiting means assessed and waiting to be seen
	StatusWaiting Status = "waiting"

	// StatusSeen means picked up by a clinician
	StatusSeen Status = "seen"
)

// Record is a persisted intake: the request, the assessment it produced and
// where the patient is in the queue.
type Record struct {
	ID          string      `json:"id"`
	PatientName string      `json:"patient_name,omitempty"`
	Age         int         `json:"age"`
	Gender      Gender      `json:"gender"`
	Symptoms    string      `json:"symptoms"`
	Vitals      *VitalSigns `json:"vitals,omitempty"`
	Assessment  Assessment  `json:"assessment"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	SeenAt      time.Time   `json:"seen_at,omitempty"`
}
