package clinicalapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/caduceus/internal/directory"
)

func (a *API) handleStaff(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.dir.Staff(r.Context()))
}

func (a *API) handleDepartments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.dir.Departments(r.Context()))
}

func (a *API) handleUpdateStaffStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Status directory.StaffStatus `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	m, err := a.dir.UpdateStatus(r.Context(), id, body.Status)
	switch {
	case errors.Is(err, directory.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, directory.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		a.logger.Error(r.Context(), err, "failed to update staff status", "id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		a.logger.Info(r.Context(), "staff status updated", "id", id, "status", m.Status)
		writeJSON(w, http.StatusOK, m)
	}
}
