package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

func criticalRecord() *triage.Record {
	return &triage.Record{
		ID:          "01JN123",
		PatientName: "Jane Roe",
		Age:         72,
		Symptoms:    "crushing chest pain radiating to left arm",
		Assessment: triage.Assessment{
			PriorityScore:         10,
			PriorityLevel:         triage.PriorityCritical,
			EstimatedWaitMinutes:  0,
			RecommendedDepartment: "Internal Medicine",
			Category:              "cardiac",
			Alerts:                []string{"Abnormal heart rate", "IMMEDIATE ATTENTION REQUIRED"},
			ConfidencePercent:     91,
		},
		CreatedAt: time.Date(2026, 2, 26, 14, 23, 0, 0, time.UTC),
	}
}

func TestNotify_PostsToWebhook(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL, 8, log.Nop())
	if err := n.Notify(context.Background(), criticalRecord()); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	blocks, ok := got["blocks"].([]any)
	if !ok {
		t.Fatal("expected blocks array in payload")
	}

	// header, divider, fields, divider, presentation, divider, context = 7 blocks
	if len(blocks) != 7 {
		t.Errorf("blocks count = %d, want 7", len(blocks))
	}

	header := blocks[0].(map[string]any)
	headerText := header["text"].(map[string]any)["text"].(string)
	if !strings.Contains(headerText, "Internal Medicine") {
		t.Errorf("header text = %q, want to contain department", headerText)
	}
	if !strings.Contains(headerText, "\U0001f534") {
		t.Errorf("header should contain red circle for critical priority")
	}

	presentation := blocks[4].(map[string]any)["text"].(map[string]any)["text"].(string)
	if !strings.Contains(presentation, "IMMEDIATE ATTENTION REQUIRED") {
		t.Errorf("presentation block missing alerts: %q", presentation)
	}
}

func TestNotify_BelowThresholdSkipped(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL, 8, log.Nop())
	r := criticalRecord()
	r.Assessment.PriorityScore = 7
	r.Assessment.PriorityLevel = triage.PriorityHigh

	if err := n.Notify(context.Background(), r); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("webhook called %d times for a below-threshold record", calls.Load())
	}
}

func TestNotify_NoOpWithoutURL(t *testing.T) {
	t.Parallel()

	n := New("", 0, nil)
	if err := n.Notify(context.Background(), criticalRecord()); err != nil {
		t.Fatalf("Notify with empty URL should be no-op, got: %v", err)
	}
}

func TestNotify_TruncatesLongSymptoms(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := criticalRecord()
	r.Symptoms = strings.Repeat("x", 4000)
	r.Assessment.Alerts = nil

	if err := New(srv.URL, 1, log.Nop()).Notify(context.Background(), r); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	blocks := got["blocks"].([]any)
	text := blocks[4].(map[string]any)["text"].(map[string]any)["text"].(string)

	prefix := "*Symptoms*\n"
	if len(text) > maxSymptomsLen+len(prefix) {
		t.Errorf("symptoms text length = %d, expected <= %d", len(text), maxSymptomsLen+len(prefix))
	}
	if !strings.HasSuffix(text, "...") {
		t.Error("expected truncated symptoms to end with ...")
	}
}

func TestNotify_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	err := New(srv.URL, 0, log.Nop()).Notify(context.Background(), criticalRecord())
	if err == nil {
		t.Fatal("expected error on non-OK status")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %q, want to contain status code 500", err.Error())
	}
}

func TestLevelEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level triage.PriorityLevel
		want  string
	}{
		{triage.PriorityCritical, "\U0001f534"},
		{triage.PriorityHigh, "\U0001f7e0"},
		{triage.PriorityMedium, "\U0001f7e1"},
		{triage.PriorityLow, "\U0001f7e2"},
		{"", "\U0001f7e2"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			if got := levelEmoji(tt.level); got != tt.want {
				t.Errorf("levelEmoji(%q) = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func FuzzSlackBuild(f *testing.F) {
	f.Add("Jane", "chest pain", "Internal Medicine", 10)
	f.Add("", "", "", 0)
	f.Add("<@U123> mention", "*bold* _italic_ ~strike~", "ENT", 5)
	f.Add("name\x00\x01", "sym\nptoms", "dept\ttab", -3)
	f.Add(strings.Repeat("A", 5000), strings.Repeat("x", 10000), "Emergency", 8)

	f.Fuzz(func(t *testing.T, name, symptoms, department string, score int) {
		r := &triage.Record{
			ID:          "fuzz-id",
			PatientName: name,
			Symptoms:    symptoms,
			Assessment: triage.Assessment{
				PriorityScore:         score,
				PriorityLevel:         triage.LevelForScore(score),
				RecommendedDepartment: department,
			},
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		data, err := json.Marshal(buildMessage(r))
		if err != nil {
			t.Fatalf("buildMessage produced non-marshalable output: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("buildMessage JSON does not round-trip: %v", err)
		}
		blocks, ok := decoded["blocks"].([]any)
		if !ok || len(blocks) != 7 {
			t.Fatalf("blocks = %v, want 7", decoded["blocks"])
		}
	})
}
