package handlers

import (
	"context"
	"net/http"

	"edustaff-backend/internal/models"

	"github.com/gorilla/mux"
)

// JobRunner runs a scheduled credit job on demand.
type JobRunner interface {
	RunNow(ctx context.Context, job string) (*models.CreditRunReport, error)
}

type JobHandler struct {
	Runner JobRunner
}

func NewJobHandler(runner JobRunner) *JobHandler {
	return &JobHandler{Runner: runner}
}

// Run handles POST /api/admin/jobs/{job}/run
func (h *JobHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.Runner.RunNow(r.Context(), mux.Vars(r)["job"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": models.StatusGood, "report": report})
}
