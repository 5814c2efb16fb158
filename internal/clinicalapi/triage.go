package clinicalapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

func (a *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req triage.Request
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Gender = triage.ParseGender(string(req.Gender))

	writeJSON(w, http.StatusOK, a.triage.Assess(r.Context(), req))
}

func (a *API) handleAdmit(w http.ResponseWriter, r *http.Request) {
	var req triage.AdmitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Gender = triage.ParseGender(string(req.Gender))

	rec, err := a.triage.Admit(r.Context(), req)
	switch {
	case errors.Is(err, triage.ErrEmptySymptoms):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		a.logger.Error(r.Context(), err, "failed to admit patient")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("caduceus.record.id", rec.ID),
		attribute.Int("caduceus.triage.score", rec.Assessment.PriorityScore),
	)
	w.Header().Set("Location", "/api/v1/triage/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("caduceus.record.id", id))

	rec, ok, err := a.triage.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get triage record", "id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	span.SetAttributes(attribute.String("caduceus.record.status", string(rec.Status)))
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleMarkSeen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, ok, err := a.triage.MarkSeen(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to mark record seen", "id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleQueue(w http.ResponseWriter, r *http.Request) {
	limit := defaultQueueLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxQueueLimit {
			writeError(w, http.StatusBadRequest, "limit must be 1.."+strconv.Itoa(maxQueueLimit))
			return
		}
		limit = n
	}

	records, err := a.triage.Queue(r.Context(), limit)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list queue")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []*triage.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"records": records,
	})
}
