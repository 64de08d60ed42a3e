package handlers

import (
	"net/http"

	"edustaff-backend/internal/models"
	"edustaff-backend/internal/services"

	"github.com/gorilla/mux"
)

type HistoryHandler struct {
	Service *services.ReportService
}

func NewHistoryHandler(s *services.ReportService) *HistoryHandler {
	return &HistoryHandler{Service: s}
}

// Transfers handles POST /api/history/transfers with optional
// {"start_date","end_date"}.
func (h *HistoryHandler) Transfers(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.HistoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Service.TransferHistory(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Commissions handles POST /api/history/commissions
func (h *HistoryHandler) Commissions(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.HistoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Service.CommissionHistory(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Monthly handles GET /api/commissions/{emp_id}/{year}/{month}
func (h *HistoryHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := pathInt(r, "year")
	if err != nil {
		writeError(w, err)
		return
	}
	month, err := pathInt(r, "month")
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Service.MonthlyCommissions(r.Context(), actor, mux.Vars(r)["emp_id"], year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
