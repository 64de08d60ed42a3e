package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"edustaff-backend/internal/models"
	"edustaff-backend/internal/services"
)

type SalarySlipHandler struct {
	Service *services.SalarySlipService
}

func NewSalarySlipHandler(s *services.SalarySlipService) *SalarySlipHandler {
	return &SalarySlipHandler{Service: s}
}

// Generate handles POST /api/salary-slips {"month","year"}
func (h *SalarySlipHandler) Generate(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.SalarySlipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	slip, err := h.Service.Generate(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slip)
}

func (h *SalarySlipHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := h.Service.Recent(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PDF handles GET /api/salary-slips/{year}/{month}/pdf
func (h *SalarySlipHandler) PDF(w http.ResponseWriter, r *http.Request) {
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

	body, slip, err := h.Service.PDF(r.Context(), actor, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	if body == nil {
		writeJSON(w, http.StatusOK, slip)
		return
	}

	filename := fmt.Sprintf("salary_slip_%s_%d_%02d.pdf", slip.EmployeeID, year, month)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}
