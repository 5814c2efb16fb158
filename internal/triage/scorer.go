package triage

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

const (
	minScore = 1
	maxScore = 10

	vitalWeight = 0.5
)

// Rand is the random source used for confidence values. *rand.Rand from
// math/rand/v2 satisfies it; tests pass a seeded one.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Scorer turns symptom text, age and vitals into an Assessment. It holds only
// read-only tables and is safe for concurrent use when its Rand is.
type Scorer struct {
	catalog Catalog
	rnd     Rand
}

// NewScorer creates a Scorer over the given catalog. A nil rnd uses the
// process-wide random source.
func NewScorer(catalog Catalog, rnd Rand) *Scorer {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Scorer{catalog: catalog, rnd: rnd}
}

// Assess scores a request. It never fails: empty text falls through to the
// generic heuristics and absent vitals contribute nothing.
func (s *Scorer) Assess(req Request) Assessment {
	text := strings.ToLower(req.Symptoms)

	var (
		reasoning []string
		matched   []string
		best      *SymptomRule
	)

	for i := range s.catalog.Symptoms {
		rule := &s.catalog.Symptoms[i]
		if rule.Phrase == "" || !strings.Contains(text, rule.Phrase) {
			continue
		}
		matched = append(matched, rule.Phrase)
		reasoning = append(reasoning, fmt.Sprintf("Symptom detected: %s (severity %d/10, %s)", rule.Phrase, rule.Score, rule.Urgency))
		if best == nil || rule.Score > best.Score {
			best = rule
		}
	}

	var symptomScore int
	category := CategoryGeneral
	if best != nil {
		symptomScore = best.Score
		category = best.Category
	} else {
		symptomScore = fallbackScore(text)
		reasoning = append(reasoning, "General assessment based on symptom description")
	}

	factor := s.catalog.ageFactor(req.Age)
	if factor > 1.0 {
		reasoning = append(reasoning, fmt.Sprintf("Age risk factor applied: %d years (x%.1f)", req.Age, factor))
	}

	vitalScore, vitalAlerts := scoreVitals(req.Vitals)
	alerts := append([]string{}, vitalAlerts...)
	if vitalScore > 0 {
		reasoning = append(reasoning, fmt.Sprintf("Vital signs contributed +%d to the score", vitalScore))
	}

	final := finalScore(symptomScore, factor, vitalScore)
	level := LevelForScore(final)
	if level == PriorityCritical {
		alerts = append(alerts, AlertImmediateAttention)
	}

	return Assessment{
		PriorityScore:         final,
		PriorityLevel:         level,
		PriorityColor:         level.Color(),
		EstimatedWaitMinutes:  level.WaitMinutes(),
		RecommendedDepartment: s.catalog.department(category),
		Category:              category,
		MatchedSymptoms:       matched,
		Reasoning:             reasoning,
		Alerts:                alerts,
		ConfidencePercent:     s.confidence(best != nil),
	}
}

// fallbackScore applies the coarse keyword heuristics used when no catalog
// phrase matched. Exactly one branch fires.
func fallbackScore(text string) int {
	switch {
	case strings.Contains(text, "emergency"):
		return 7
	case strings.Contains(text, "accident"):
		return 6
	case strings.Contains(text, "pain"):
		return 4
	default:
		return 3
	}
}

func finalScore(symptom int, ageFactor float64, vital int) int {
	raw := math.Round(float64(symptom)*ageFactor + float64(vital)*vitalWeight)
	return clamp(int(raw), minScore, maxScore)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// confidence draws from [85,95) when a catalog symptom matched and from
// [65,80) otherwise.
func (s *Scorer) confidence(matched bool) int {
	if matched {
		return 85 + s.rnd.IntN(10)
	}
	return 65 + s.rnd.IntN(15)
}

// LevelForScore maps a final score onto its priority level.
func LevelForScore(score int) PriorityLevel {
	switch {
	case score >= 8:
		return PriorityCritical
	case score >= 6:
		return PriorityHigh
	case score >= 4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Color is the display color for a level.
func (p PriorityLevel) Color() string {
	switch p {
	case PriorityCritical:
		return "red"
	case PriorityHigh:
		return "orange"
	case PriorityMedium:
		return "yellow"
	default:
		return "green"
	}
}

// WaitMinutes is the estimated wait for a level.
func (p PriorityLevel) WaitMinutes() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 15
	case PriorityMedium:
		return 45
	default:
		return 90
	}
}
