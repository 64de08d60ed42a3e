package handlers

import (
	"net/http"

	"edustaff-backend/internal/models"
	"edustaff-backend/internal/services"
)

type InquiryHandler struct {
	Service *services.InquiryService
}

func NewInquiryHandler(s *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{Service: s}
}

// Submit handles the public POST /inquiries
func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.UserInquiry
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.Service.Submit(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"status": models.StatusGood, "id": q.ID})
}

// List handles GET /api/inquiries (admin).
func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": models.StatusGood, "inquiries": list})
}
