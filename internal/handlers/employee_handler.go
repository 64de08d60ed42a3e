package handlers

import (
	"net/http"

	"edustaff-backend/internal/models"
	"edustaff-backend/internal/services"

	"github.com/gorilla/mux"
)

type EmployeeHandler struct {
	Service   *services.EmployeeService
	Directory *services.DirectoryService
}

func NewEmployeeHandler(s *services.EmployeeService, d *services.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{Service: s, Directory: d}
}

// Create handles POST /api/employees. A refused creation is a 200 with
// status "bad".
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req models.CreateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Service.Create(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if res.Status != models.StatusGood {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Directory.Visible(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.Directory.Profile(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Hierarchy handles GET /api/hierarchy (admin and branch).
func (h *EmployeeHandler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	tree, err := h.Directory.Tree(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": models.StatusGood, "tree": tree})
}

func (h *EmployeeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Directory.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *EmployeeHandler) ManagerTeam(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	team, err := h.Directory.ManagerTeam(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *EmployeeHandler) FieldManagerTeam(w http.ResponseWriter, r *http.Request) {
	actor, err := actorOf(r)
	if err != nil {
		writeError(w, err)
		return
	}
	team, err := h.Directory.FieldManagerTeam(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}
