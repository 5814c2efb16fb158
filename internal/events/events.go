// Package events publishes triage admissions to Kafka for downstream
// consumers such as bed management and analytics.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

// EventAdmitted is the type header value for admission events.
const EventAdmitted = "triage.admitted"

// Admitted is the message body for an admitted record. Patient name and
// free-text symptoms are not published.
type Admitted struct {
	RecordID        string               `json:"record_id"`
	OccurredAt      time.Time            `json:"occurred_at"`
	Age             int                  `json:"age"`
	Gender          triage.Gender        `json:"gender"`
	PriorityScore   int                  `json:"priority_score"`
	PriorityLevel   triage.PriorityLevel `json:"priority_level"`
	Department      string               `json:"department"`
	Category        string               `json:"category"`
	WaitMinutes     int                  `json:"estimated_wait_minutes"`
	MatchedSymptoms []string             `json:"matched_symptoms,omitempty"`
	Alerts          []string             `json:"alerts"`
}

// writer is the subset of *kafka.Writer the publisher needs.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes admission events to a Kafka topic.
type Publisher struct {
	w      writer
	logger log.Logger
}

// NewPublisher creates a publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string, logger log.Logger) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}, logger)
}

func newPublisher(w writer, logger log.Logger) *Publisher {
	if logger == nil {
		logger = log.Nop()
	}
	return &Publisher{w: w, logger: logger}
}

// Publish sends r as an Admitted event keyed by record ID.
func (p *Publisher) Publish(ctx context.Context, r *triage.Record) error {
	data, err := json.Marshal(newAdmitted(r))
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(r.ID),
		Value: data,
		Time:  r.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventAdmitted)},
			{Key: "priority-level", Value: []byte(r.Assessment.PriorityLevel)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write: %w", err)
	}

	p.logger.Info(ctx, "published admission event", "record_id", r.ID)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}

func newAdmitted(r *triage.Record) Admitted {
	a := r.Assessment
	return Admitted{
		RecordID:        r.ID,
		OccurredAt:      r.CreatedAt,
		Age:             r.Age,
		Gender:          r.Gender,
		PriorityScore:   a.PriorityScore,
		PriorityLevel:   a.PriorityLevel,
		Department:      a.RecommendedDepartment,
		Category:        a.Category,
		WaitMinutes:     a.EstimatedWaitMinutes,
		MatchedSymptoms: a.MatchedSymptoms,
		Alerts:          a.Alerts,
	}
}
