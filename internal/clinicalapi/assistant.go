package clinicalapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/caduceus/internal/knowledge"
)

// queryRequest is the body of POST /assistant/query. The directory snapshot
// is filled in server side.
type queryRequest struct {
	Text         string                  `json:"text"`
	Conversation *knowledge.Conversation `json:"conversation,omitempty"`
}

func (a *API) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx := r.Context()
	ans := a.assistant.Answer(ctx, knowledge.Query{
		Text:         req.Text,
		Conversation: req.Conversation,
		Staff:        a.dir.Staff(ctx),
		Departments:  a.dir.Departments(ctx),
	})

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("caduceus.assistant.rule", string(ans.Rule)),
		attribute.String("caduceus.assistant.type", string(ans.Type)),
	)
	writeJSON(w, http.StatusOK, ans)
}
