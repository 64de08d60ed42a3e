package handlers

import (
	"net/http"

	"edustaff-backend/internal/models"
	"edustaff-backend/internal/services"

	"github.com/gorilla/mux"
)

type FundsHandler struct {
	Service *services.LedgerService
}

func NewFundsHandler(s *services.LedgerService) *FundsHandler {
	return &FundsHandler{Service: s}
}

// Transfer handles POST /api/funds/transfer
func (h *FundsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.TransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	t, err := h.Service.Transfer(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": models.StatusGood, "transfer": t})
}

// Me handles GET /api/funds/me
func (h *FundsHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Service.Balance(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Entries handles GET /api/funds/me/entries?limit=n
func (h *FundsHandler) Entries(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.Service.Entries(r.Context(), actor, queryInt(r, "limit", 50, 500))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": models.StatusGood, "entries": entries})
}

// Reconcile handles GET /api/funds/{id}/reconcile (admin).
func (h *FundsHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Reconcile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
