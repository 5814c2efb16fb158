package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/segmentio/kafka-go"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func admittedRecord() *triage.Record {
	return &triage.Record{
		ID:          "01JQ0000000000000000000000",
		PatientName: "Jane Roe",
		Age:         1,
		Gender:      triage.GenderFemale,
		Symptoms:    "high fever and rash",
		Assessment: triage.Assessment{
			PriorityScore:         10,
			PriorityLevel:         triage.PriorityCritical,
			EstimatedWaitMinutes:  0,
			RecommendedDepartment: "General Medicine",
			Category:              "infectious",
			MatchedSymptoms:       []string{"fever", "high fever", "rash"},
			Alerts:                []string{"IMMEDIATE ATTENTION REQUIRED"},
		},
		Status:    triage.StatusWaiting,
		CreatedAt: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublish_WritesEvent(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := newPublisher(w, nil)
	r := admittedRecord()

	if err := p.Publish(context.Background(), r); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	msg := w.msgs[0]

	if string(msg.Key) != r.ID {
		t.Errorf("key = %q, want record ID", msg.Key)
	}
	if !msg.Time.Equal(r.CreatedAt) {
		t.Errorf("time = %v, want %v", msg.Time, r.CreatedAt)
	}
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if diff := cmp.Diff(map[string]string{"event-type": EventAdmitted, "priority-level": "critical"}, headers); diff != "" {
		t.Errorf("headers (-want +got):\n%s", diff)
	}

	var got Admitted
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := Admitted{
		RecordID:        r.ID,
		OccurredAt:      r.CreatedAt,
		Age:             1,
		Gender:          triage.GenderFemale,
		PriorityScore:   10,
		PriorityLevel:   triage.PriorityCritical,
		Department:      "General Medicine",
		Category:        "infectious",
		MatchedSymptoms: []string{"fever", "high fever", "rash"},
		Alerts:          []string{"IMMEDIATE ATTENTION REQUIRED"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event (-want +got):\n%s", diff)
	}
}

func TestPublish_OmitsIdentifyingText(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	if err := newPublisher(w, nil).Publish(context.Background(), admittedRecord()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	body := string(w.msgs[0].Value)
	for _, s := range []string{"Jane Roe", "high fever and rash"} {
		if strings.Contains(body, s) {
			t.Errorf("event body leaks %q: %s", s, body)
		}
	}
}

func TestPublish_WriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker unavailable")
	p := newPublisher(&fakeWriter{err: boom}, nil)

	err := p.Publish(context.Background(), admittedRecord())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	if err := newPublisher(w, nil).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !w.closed {
		t.Error("writer not closed")
	}
}

func TestNewPublisher_ImplementsTriagePublisher(t *testing.T) {
	t.Parallel()

	var _ triage.Publisher = NewPublisher([]string{"localhost:9092"}, "caduceus.triage", nil)
}
