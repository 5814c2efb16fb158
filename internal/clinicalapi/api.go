// Package clinicalapi exposes triage, the knowledge assistant and the staff
// directory over HTTP.
package clinicalapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/caduceus/internal/directory"
	"github.com/linnemanlabs/caduceus/internal/knowledge"
	"github.com/linnemanlabs/caduceus/internal/triage"
)

// TriageService defines the intake operations the API needs.
type TriageService interface {
	Assess(ctx context.Context, req triage.Request) triage.Assessment
	Admit(ctx context.Context, req triage.AdmitRequest) (*triage.Record, error)
	Get(ctx context.Context, id string) (*triage.Record, bool, error)
	Queue(ctx context.Context, limit int) ([]*triage.Record, error)
	MarkSeen(ctx context.Context, id string) (*triage.Record, bool, error)
}

// Assistant answers free-text staff questions.
type Assistant interface {
	Answer(ctx context.Context, q knowledge.Query) knowledge.Answer
}

// Directory is the staff and department lookup.
type Directory interface {
	Staff(ctx context.Context) []directory.StaffMember
	Departments(ctx context.Context) []directory.Department
	UpdateStatus(ctx context.Context, id string, status directory.StaffStatus) (directory.StaffMember, error)
}

const (
	defaultQueueLimit = 50
	maxQueueLimit     = 500
)

// API holds dependencies for HTTP handlers.
type API struct {
	logger    log.Logger
	triage    TriageService
	assistant Assistant
	dir       Directory
}

// New creates a new API handler.
func New(logger log.Logger, svc TriageService, assistant Assistant, dir Directory) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("triage service is required"))
	}
	if assistant == nil {
		panic(xerrors.New("assistant is required"))
	}
	if dir == nil {
		panic(xerrors.New("directory is required"))
	}
	return &API{
		logger:    logger,
		triage:    svc,
		assistant: assistant,
		dir:       dir,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/triage", a.handleAdmit)
		r.Post("/triage/preview", a.handlePreview)
		r.Get("/triage/{id}", a.handleGetRecord)
		r.Post("/triage/{id}/seen", a.handleMarkSeen)
		r.Get("/queue", a.handleQueue)

		r.Post("/assistant/query", a.handleQuery)

		r.Get("/staff", a.handleStaff)
		r.Put("/staff/{id}/status", a.handleUpdateStaffStatus)
		r.Get("/departments", a.handleDepartments)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// nothing to do with errors here
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
