package triage

// Vital-sign alert strings. Each field contributes at most one tier.
const (
	AlertCriticalOxygen     = "Critical oxygen levels"
	AlertLowOxygen          = "Low oxygen saturation"
	AlertVeryHighFever      = "Very high fever"
	AlertElevatedTemp       = "Elevated temperature"
	AlertHypothermia        = "Hypothermia"
	AlertAbnormalHeartRate  = "Abnormal heart rate"
	AlertElevatedHeartRate  = "Elevated heart rate"
	AlertCriticalBP         = "Critical blood pressure"
	AlertElevatedBP         = "Elevated blood pressure"
	AlertAbnormalRespRate   = "Abnormal respiratory rate"
	AlertElevatedRespRate   = "Elevated respiratory rate"
	AlertImmediateAttention = "IMMEDIATE ATTENTION REQUIRED"
)

// scoreVitals tests each present field against its two-tier thresholds and
// returns the summed contribution plus alerts in field order.
func scoreVitals(v *VitalSigns) (int, []string) {
	if v == nil {
		return 0, nil
	}

	var score int
	var alerts []string
	add := func(points int, alert string) {
		score += points
		alerts = append(alerts, alert)
	}

	if v.OxygenSaturation != nil {
		switch spo2 := *v.OxygenSaturation; {
		case spo2 < 90:
			add(4, AlertCriticalOxygen)
		case spo2 < 94:
			add(2, AlertLowOxygen)
		}
	}

	if v.Temperature != nil {
		switch temp := *v.Temperature; {
		case temp > 40:
			add(3, AlertVeryHighFever)
		case temp > 38.5:
			add(1, AlertElevatedTemp)
		case temp < 35:
			add(3, AlertHypothermia)
		}
	}

	if v.HeartRate != nil {
		switch hr := *v.HeartRate; {
		case hr > 120 || hr < 50:
			add(3, AlertAbnormalHeartRate)
		case hr > 100:
			add(1, AlertElevatedHeartRate)
		}
	}

	if v.BloodPressureSystolic != nil {
		switch sys := *v.BloodPressureSystolic; {
		case sys > 180 || sys < 90:
			add(3, AlertCriticalBP)
		case sys > 140:
			add(1, AlertElevatedBP)
		}
	}

	if v.RespiratoryRate != nil {
		switch rr := *v.RespiratoryRate; {
		case rr > 30 || rr < 8:
			add(3, AlertAbnormalRespRate)
		case rr > 20:
			add(1, AlertElevatedRespRate)
		}
	}

	return score, alerts
}
