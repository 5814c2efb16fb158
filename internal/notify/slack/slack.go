// Package slack posts urgent triage admissions to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

const (
	maxSymptomsLen = 1500
	httpTimeout    = 10 * time.Second
)

// Notifier sends admitted records at or above a score threshold to a Slack
// webhook.
type Notifier struct {
	webhookURL string
	minScore   int
	client     *http.Client
	logger     log.Logger
}

// New creates a new Slack notifier. If webhookURL is empty, Notify is a
// no-op. Records scoring below minScore are skipped.
func New(webhookURL string, minScore int, logger log.Logger) *Notifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &Notifier{
		webhookURL: webhookURL,
		minScore:   minScore,
		client:     &http.Client{Timeout: httpTimeout},
		logger:     logger,
	}
}

// Notify posts r to the configured webhook when its score reaches the
// threshold.
func (n *Notifier) Notify(ctx context.Context, r *triage.Record) error {
	if n.webhookURL == "" || r.Assessment.PriorityScore < n.minScore {
		return nil
	}

	body, err := json.Marshal(buildMessage(r))
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	n.logger.Info(ctx, "slack notification sent", "record_id", r.ID, "score", r.Assessment.PriorityScore)
	return nil
}

func buildMessage(r *triage.Record) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(r),
			{"type": "divider"},
			fieldsBlock(r),
			{"type": "divider"},
			presentationBlock(r),
			{"type": "divider"},
			contextBlock(r),
		},
	}
}

func headerBlock(r *triage.Record) map[string]any {
	a := r.Assessment
	text := fmt.Sprintf("%s %s priority: %s", levelEmoji(a.PriorityLevel), strings.ToUpper(string(a.PriorityLevel)), a.RecommendedDepartment)
	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": text,
		},
	}
}

func fieldsBlock(r *triage.Record) map[string]any {
	a := r.Assessment
	patient := r.PatientName
	if patient == "" {
		patient = "unnamed"
	}
	mk := func(format string, args ...any) map[string]any {
		return map[string]any{"type": "mrkdwn", "text": fmt.Sprintf(format, args...)}
	}
	return map[string]any{
		"type": "section",
		"fields": []map[string]any{
			mk("*Patient:* %s", patient),
			mk("*Age:* %d", r.Age),
			mk("*Score:* %d/10", a.PriorityScore),
			mk("*Wait:* %d min", a.EstimatedWaitMinutes),
			mk("*Category:* %s", a.Category),
			mk("*Confidence:* %d%%", a.ConfidencePercent),
		},
	}
}

func presentationBlock(r *triage.Record) map[string]any {
	symptoms := truncate(r.Symptoms, maxSymptomsLen)
	if symptoms == "" {
		symptoms = "_No symptoms recorded._"
	}
	text := fmt.Sprintf("*Symptoms*\n%s", symptoms)
	if len(r.Assessment.Alerts) > 0 {
		text += "\n\n*Alerts*\n• " + strings.Join(r.Assessment.Alerts, "\n• ")
	}
	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": text,
		},
	}
}

func contextBlock(r *triage.Record) map[string]any {
	return map[string]any{
		"type": "context",
		"elements": []map[string]any{
			{
				"type": "mrkdwn",
				"text": fmt.Sprintf("caduceus • record %s • %s", r.ID, r.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
			},
		},
	}
}

func levelEmoji(level triage.PriorityLevel) string {
	switch level {
	case triage.PriorityCritical:
		return "\U0001f534" // red circle
	case triage.PriorityHigh:
		return "\U0001f7e0" // orange circle
	case triage.PriorityMedium:
		return "\U0001f7e1" // yellow circle
	default:
		return "\U0001f7e2" // green circle
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
