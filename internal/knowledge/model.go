// Package knowledge answers free-text staff questions from a curated
// knowledge base and the hospital directory.
//
// Matching is deterministic keyword lookup evaluated in a fixed priority
// order. The first rule that matches decides the answer.
package knowledge

import "github.com/linnemanlabs/caduceus/internal/directory"

// AnswerType classifies an answer for display.
type AnswerType string

const (
	TypeAnswer     AnswerType = "answer"
	TypeLookup     AnswerType = "lookup"
	TypeSuggestion AnswerType = "suggestion"
	TypeAlert      AnswerType = "alert"
	TypeSummary    AnswerType = "summary"
)

// Rule names the dispatch branch that produced an answer.
type Rule string

const (
	RuleProtocol        Rule = "protocol"
	RuleDrugInteraction Rule = "drug_interaction"
	RuleStaff           Rule = "staff"
	RuleSchedule        Rule = "schedule"
	RuleDepartment      Rule = "department"
	RulePatientCensus   Rule = "patient_census"
	RuleSummary         Rule = "summary"
	RuleGreeting        Rule = "greeting"
	RuleHelp            Rule = "help"
	RuleBedAvailability Rule = "bed_availability"
	RuleDefault         Rule = "default"
)

// Answer is the response to a single query.
type Answer struct {
	Content           string     `json:"content"`
	Type              AnswerType `json:"type"`
	ConfidencePercent int        `json:"confidence_percent"`
	Sources           []string   `json:"sources,omitempty"`
	Rule              Rule       `json:"rule"`
}

// Conversation is optional chat context supplied with a query.
type Conversation struct {
	ChannelName    string   `json:"channel_name"`
	RecentMessages []string `json:"recent_messages"`
	UserName       string   `json:"user_name"`
}

// Query is a single question plus the directory snapshot to answer it from.
// Staff and Departments are read, never modified.
type Query struct {
	Text         string
	Conversation *Conversation
	Staff        []directory.StaffMember
	Departments  []directory.Department
}
