package triage

// SymptomRule is one entry of the symptom severity catalog. Phrase is
// lowercase and matched as a substring of the lowercased symptom text.
type SymptomRule struct {
	Phrase   string
	Score    int
	Category string
	Urgency  Urgency
}

// AgeFactor multiplies the symptom score for patients whose age falls in
// [MinAge, MaxAge). MaxAge <= 0 means unbounded.
type AgeFactor struct {
	MinAge int
	MaxAge int
	Factor float64
}

// Catalog is the static configuration consumed by the Scorer. Order of
// Symptoms matters: ties on score keep the earlier entry.
type Catalog struct {
	Symptoms          []SymptomRule
	AgeFactors        []AgeFactor
	Departments       map[string]string
	DefaultDepartment string
}

// CategoryGeneral is used when no catalog symptom matched.
const CategoryGeneral = "general"

// DefaultCatalog returns the production symptom, age and department tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Symptoms: []SymptomRule{
			{"cardiac arrest", 10, "cardiac", UrgencyImmediate},
			{"heart attack", 10, "cardiac", UrgencyImmediate},
			{"chest pain", 9, "cardiac", UrgencyImmediate},
			{"palpitations", 6, "cardiac", UrgencyUrgent},
			{"not breathing", 10, "respiratory", UrgencyImmediate},
			{"difficulty breathing", 9, "respiratory", UrgencyImmediate},
			{"shortness of breath", 8, "respiratory", UrgencyUrgent},
			{"asthma attack", 8, "respiratory", UrgencyUrgent},
			{"wheezing", 5, "respiratory", UrgencySemiUrgent},
			{"cough", 3, "respiratory", UrgencyNonUrgent},
			{"unconscious", 10, "neurological", UrgencyImmediate},
			{"stroke", 10, "neurological", UrgencyImmediate},
			{"seizure", 9, "neurological", UrgencyImmediate},
			{"confusion", 7, "neurological", UrgencyUrgent},
			{"severe headache", 7, "neurological", UrgencyUrgent},
			{"dizziness", 5, "neurological", UrgencySemiUrgent},
			{"headache", 4, "neurological", UrgencyNonUrgent},
			{"severe bleeding", 9, "trauma", UrgencyImmediate},
			{"head injury", 8, "trauma", UrgencyUrgent},
			{"burn", 7, "trauma", UrgencyUrgent},
			{"fracture", 6, "trauma", UrgencySemiUrgent},
			{"broken bone", 6, "trauma", UrgencySemiUrgent},
			{"deep cut", 6, "trauma", UrgencySemiUrgent},
			{"sprain", 3, "trauma", UrgencyNonUrgent},
			{"overdose", 9, "toxicology", UrgencyImmediate},
			{"poisoning", 9, "toxicology", UrgencyImmediate},
			{"anaphylaxis", 10, "allergic", UrgencyImmediate},
			{"allergic reaction", 7, "allergic", UrgencyUrgent},
			{"swelling", 4, "allergic", UrgencyNonUrgent},
			{"low blood sugar", 8, "metabolic", UrgencyUrgent},
			{"diabetic", 7, "metabolic", UrgencyUrgent},
			{"dehydration", 5, "metabolic", UrgencySemiUrgent},
			{"vaginal bleeding", 8, "obstetric", UrgencyUrgent},
			{"contractions", 7, "obstetric", UrgencyUrgent},
			{"pregnant", 5, "obstetric", UrgencySemiUrgent},
			{"abdominal pain", 6, "gastrointestinal", UrgencySemiUrgent},
			{"vomiting blood", 8, "gastrointestinal", UrgencyUrgent},
			{"vomiting", 5, "gastrointestinal", UrgencySemiUrgent},
			{"diarrhea", 4, "gastrointestinal", UrgencyNonUrgent},
			{"high fever", 7, "infectious", UrgencyUrgent},
			{"fever", 5, "infectious", UrgencySemiUrgent},
			{"nosebleed", 4, "ent", UrgencyNonUrgent},
			{"ear pain", 3, "ent", UrgencyNonUrgent},
			{"sore throat", 3, "ent", UrgencyNonUrgent},
			{"vision loss", 8, "ophthalmology", UrgencyUrgent},
			{"eye injury", 7, "ophthalmology", UrgencyUrgent},
			{"blurred vision", 5, "ophthalmology", UrgencySemiUrgent},
			{"back pain", 4, "musculoskeletal", UrgencyNonUrgent},
			{"rash", 3, "dermatological", UrgencyNonUrgent},
		},
		AgeFactors: []AgeFactor{
			{MinAge: 0, MaxAge: 2, Factor: 1.5},
			{MinAge: 2, MaxAge: 5, Factor: 1.3},
			{MinAge: 65, MaxAge: 75, Factor: 1.2},
			{MinAge: 75, MaxAge: 0, Factor: 1.4},
		},
		Departments: map[string]string{
			"cardiac":       "Internal Medicine",
			"respiratory":   "Internal Medicine",
			"neurological":  "Internal Medicine",
			"metabolic":     "Internal Medicine",
			"allergic":      "Internal Medicine",
			"trauma":        "Emergency",
			"toxicology":    "Emergency",
			"obstetric":     "Gynaecology",
			"ent":           "ENT",
			"ophthalmology": "Ophthalmology",
		},
		DefaultDepartment: "General Medicine",
	}
}

// ageFactor returns the multiplier for age, 1.0 when no band applies.
// Negative ages never match a band.
func (c *Catalog) ageFactor(age int) float64 {
	if age < 0 {
		return 1.0
	}
	for _, b := range c.AgeFactors {
		if age < b.MinAge {
			continue
		}
		if b.MaxAge > 0 && age >= b.MaxAge {
			continue
		}
		return b.Factor
	}
	return 1.0
}

func (c *Catalog) department(category string) string {
	if d, ok := c.Departments[category]; ok {
		return d
	}
	if c.DefaultDepartment != "" {
		return c.DefaultDepartment
	}
	return "General Medicine"
}
