package knowledge

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/caduceus/internal/directory"
)

var tracer = otel.Tracer("github.com/linnemanlabs/caduceus/internal/knowledge")

// Fixed confidences per branch.
const (
	confidenceProtocol   = 95
	confidenceDrug       = 92
	confidenceStaff      = 90
	confidenceSchedule   = 88
	confidenceScheduleQ  = 75
	confidenceDepartment = 90
	confidenceCensus     = 85
	confidenceSummary    = 80
	confidenceFull       = 100
	confidenceBeds       = 85
	confidenceDefault    = 30
)

var erWord = regexp.MustCompile(`\ber\b`)

// Rand is the random source used to pick greeting and fallback templates.
type Rand interface {
	IntN(n int) int
}

// Responder answers staff queries. It holds no per-call state and is safe
// for concurrent use.
type Responder struct {
	catalog  *Catalog
	rnd      Rand
	pacer    Pacer
	metrics  *Metrics
	greeting *regexp.Regexp
}

// NewResponder builds a responder over catalog. A nil pacer disables pacing;
// metrics may be nil.
func NewResponder(catalog *Catalog, rnd Rand, pacer Pacer, metrics *Metrics) *Responder {
	if catalog == nil {
		panic(xerrors.New("knowledge catalog is required"))
	}
	if rnd == nil {
		panic(xerrors.New("knowledge random source is required"))
	}
	if pacer == nil {
		pacer = NoPacer{}
	}
	return &Responder{
		catalog:  catalog,
		rnd:      rnd,
		pacer:    pacer,
		metrics:  metrics,
		greeting: greetingPattern(catalog.Greetings),
	}
}

// greetingPattern matches any greeting word at the start of the query.
func greetingPattern(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Answer resolves q and then waits out the pacing delay. Cancelling ctx
// cuts the delay short; the answer is returned either way.
func (r *Responder) Answer(ctx context.Context, q Query) Answer {
	ctx, span := tracer.Start(ctx, "knowledge.Answer")
	defer span.End()

	a := r.Respond(q)
	span.SetAttributes(
		attribute.String("caduceus.knowledge.rule", string(a.Rule)),
		attribute.String("caduceus.knowledge.type", string(a.Type)),
	)

	waited := r.pacer.Pace(ctx)
	if r.metrics != nil {
		r.metrics.AnswersTotal.WithLabelValues(string(a.Rule), string(a.Type)).Inc()
		r.metrics.PacingSeconds.Observe(waited.Seconds())
	}
	return a
}

// Respond resolves q immediately, without pacing.
func (r *Responder) Respond(q Query) Answer {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	if a, ok := r.protocol(text); ok {
		return a
	}
	if a, ok := r.drugInteraction(text); ok {
		return a
	}
	if a, ok := staffLookup(text, q.Staff); ok {
		return a
	}
	if a, ok := r.schedule(text); ok {
		return a
	}
	if a, ok := departmentLookup(text, q.Departments); ok {
		return a
	}
	if a, ok := r.patientCensus(text, q.Departments); ok {
		return a
	}
	if a, ok := summarize(text, q.Conversation); ok {
		return a
	}
	if r.greeting != nil && r.greeting.MatchString(text) {
		return Answer{
			Content:           r.pick(r.catalog.GreetingTemplates),
			Type:              TypeAnswer,
			ConfidencePercent: confidenceFull,
			Rule:              RuleGreeting,
		}
	}
	if strings.Contains(text, "help") || strings.Contains(text, "what can you do") {
		return Answer{
			Content:           r.catalog.HelpMenu,
			Type:              TypeAnswer,
			ConfidencePercent: confidenceFull,
			Rule:              RuleHelp,
		}
	}
	if strings.Contains(text, "bed") && containsAny(text, "available", "availability") {
		return Answer{
			Content:           r.catalog.BedStatus,
			Type:              TypeLookup,
			ConfidencePercent: confidenceBeds,
			Sources:           []string{SourceBeds},
			Rule:              RuleBedAvailability,
		}
	}
	return Answer{
		Content:           r.pick(r.catalog.FallbackTemplates),
		Type:              TypeSuggestion,
		ConfidencePercent: confidenceDefault,
		Rule:              RuleDefault,
	}
}

func (r *Responder) protocol(text string) (Answer, bool) {
	for _, p := range r.catalog.Protocols {
		if p.Phrase != "" && strings.Contains(text, p.Phrase) {
			return Answer{
				Content:           p.Procedure,
				Type:              TypeAnswer,
				ConfidencePercent: confidenceProtocol,
				Sources:           []string{SourceProtocols},
				Rule:              RuleProtocol,
			}, true
		}
	}
	return Answer{}, false
}

func (r *Responder) drugInteraction(text string) (Answer, bool) {
	if !containsAny(text, "interaction", "drug") {
		return Answer{}, false
	}
	for _, d := range r.catalog.Drugs {
		if d.Drug == "" || !strings.Contains(text, strings.ToLower(d.Drug)) {
			continue
		}
		return Answer{
			Content: sections(
				header("Drug Interactions: "+d.Drug),
				bullets(d.Interactions),
				warning("Always confirm with pharmacy before co-administering."),
			),
			Type:              TypeAlert,
			ConfidencePercent: confidenceDrug,
			Sources:           []string{SourcePharmacy},
			Rule:              RuleDrugInteraction,
		}, true
	}
	return Answer{}, false
}

func staffLookup(text string, staff []directory.StaffMember) (Answer, bool) {
	if !containsAny(text, "who is", "find", "contact") {
		return Answer{}, false
	}
	for _, m := range staff {
		name := strings.ToLower(m.Name)
		role := strings.ToLower(m.Role)
		if (name == "" || !strings.Contains(text, name)) && (role == "" || !strings.Contains(text, role)) {
			continue
		}
		return Answer{
			Content: sections(
				header(m.Name),
				bullets([]string{
					field("Role", m.Role),
					field("Department", m.Department),
					field("Phone", m.Phone),
					field("Email", m.Email),
					field("Status", m.Status),
				}),
			),
			Type:              TypeLookup,
			ConfidencePercent: confidenceStaff,
			Sources:           []string{SourceStaff},
			Rule:              RuleStaff,
		}, true
	}
	return Answer{}, false
}

func (r *Responder) schedule(text string) (Answer, bool) {
	if !containsAny(text, "shift", "schedule", "on duty", "working") {
		return Answer{}, false
	}
	roster := func(content string) (Answer, bool) {
		return Answer{
			Content:           content,
			Type:              TypeLookup,
			ConfidencePercent: confidenceSchedule,
			Sources:           []string{SourceSchedule},
			Rule:              RuleSchedule,
		}, true
	}
	switch {
	case strings.Contains(text, "night"):
		return roster(r.catalog.NightRoster)
	case strings.Contains(text, "emergency") || erWord.MatchString(text):
		return roster(r.catalog.EmergencyRoster)
	}
	return Answer{
		Content:           r.catalog.ScheduleHint,
		Type:              TypeSuggestion,
		ConfidencePercent: confidenceScheduleQ,
		Rule:              RuleSchedule,
	}, true
}

func departmentLookup(text string, departments []directory.Department) (Answer, bool) {
	if !strings.Contains(text, "department") {
		return Answer{}, false
	}
	for _, d := range departments {
		if d.Name == "" || !strings.Contains(text, strings.ToLower(d.Name)) {
			continue
		}
		return Answer{
			Content: sections(
				header(d.Name+" Department"),
				d.Description,
				bullets([]string{
					fmt.Sprintf("Staff: %d total, %d active", d.StaffCount, d.ActiveStaff),
					field("Patients", d.PatientCount),
					field("Coverage", d.Coverage),
					field("Head", d.Head),
				}),
			),
			Type:              TypeLookup,
			ConfidencePercent: confidenceDepartment,
			Sources:           []string{SourceDepartments},
			Rule:              RuleDepartment,
		}, true
	}
	return Answer{}, false
}

// patientCensus totals the department snapshot, or falls back to the
// catalog census when no departments were supplied.
func (r *Responder) patientCensus(text string, departments []directory.Department) (Answer, bool) {
	if !strings.Contains(text, "patient") || !containsAny(text, "how many", "count") {
		return Answer{}, false
	}
	content := r.catalog.PatientCensus
	if len(departments) > 0 {
		total := 0
		lines := make([]string, 0, len(departments)+1)
		for _, d := range departments {
			total += d.PatientCount
		}
		lines = append(lines, field("Total admitted", total))
		for _, d := range departments {
			lines = append(lines, field(d.Name, d.PatientCount))
		}
		content = sections(header("Current Patient Census"), bullets(lines))
	}
	return Answer{
		Content:           content,
		Type:              TypeSummary,
		ConfidencePercent: confidenceCensus,
		Sources:           []string{SourcePatients},
		Rule:              RulePatientCensus,
	}, true
}

func summarize(text string, conv *Conversation) (Answer, bool) {
	if !containsAny(text, "summarize", "summary") || conv == nil || len(conv.RecentMessages) == 0 {
		return Answer{}, false
	}
	channel := conv.ChannelName
	if channel == "" {
		channel = "this channel"
	} else {
		channel = "#" + channel
	}
	points := []string{
		fmt.Sprintf("%d recent messages reviewed", len(conv.RecentMessages)),
		"Latest: " + conv.RecentMessages[len(conv.RecentMessages)-1],
	}
	if conv.UserName != "" {
		points = append(points, "Requested by "+conv.UserName)
	}
	return Answer{
		Content: sections(
			header("Summary of "+channel),
			bullets(points),
			"Follow up on any open action items before handover.",
		),
		Type:              TypeSummary,
		ConfidencePercent: confidenceSummary,
		Rule:              RuleSummary,
	}, true
}

func (r *Responder) pick(templates []string) string {
	if len(templates) == 0 {
		return ""
	}
	return templates[r.rnd.IntN(len(templates))]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
