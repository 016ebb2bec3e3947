package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
	"github.com/Amoukli/Coach-AI/internal/service"
	"github.com/Amoukli/Coach-AI/internal/transport/rest/middleware"
)

// ScenarioHandler handles scenario authoring and catalogue endpoints
type ScenarioHandler struct {
	scenarioSvc *service.ScenarioService
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(scenarioSvc *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioSvc: scenarioSvc}
}

// ListPublished handles GET /v1/scenarios
func (h *ScenarioHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	specialty := r.URL.Query().Get("specialty")
	difficulty := model.Difficulty(r.URL.Query().Get("difficulty"))

	scenarios, err := h.scenarioSvc.ListPublished(r.Context(), specialty, difficulty)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"scenarios": scenarios})
}

// Get handles GET /v1/scenarios/{id}
func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	scenario, err := h.scenarioSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scenario)
}

// ListAll handles GET /v1/admin/scenarios
func (h *ScenarioHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := repository.ScenarioFilter{
		Status:     model.ScenarioStatus(r.URL.Query().Get("status")),
		Specialty:  r.URL.Query().Get("specialty"),
		Difficulty: model.Difficulty(r.URL.Query().Get("difficulty")),
	}

	scenarios, err := h.scenarioSvc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"scenarios": scenarios})
}

// Create handles POST /v1/admin/scenarios
func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var scenario model.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.scenarioSvc.Create(r.Context(), &scenario, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /v1/admin/scenarios/{id}
func (h *ScenarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	var scenario model.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.scenarioSvc.Update(r.Context(), mux.Vars(r)["id"], &scenario)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Publish handles POST /v1/admin/scenarios/{id}/publish
func (h *ScenarioHandler) Publish(w http.ResponseWriter, r *http.Request) {
	scenario, err := h.scenarioSvc.Publish(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scenario)
}

// Archive handles POST /v1/admin/scenarios/{id}/archive
func (h *ScenarioHandler) Archive(w http.ResponseWriter, r *http.Request) {
	scenario, err := h.scenarioSvc.Archive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scenario)
}

// Delete handles DELETE /v1/admin/scenarios/{id}
func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.scenarioSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Enrich handles POST /v1/admin/scenarios/{id}/enrich
func (h *ScenarioHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	scenario, err := h.scenarioSvc.EnrichWithGuidelines(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scenario)
}

// ImportRequest is the request body for importing a Clark consultation
type ImportRequest struct {
	ConsultationID string `json:"consultationId"`
}

// Import handles POST /v1/admin/scenarios/import
func (h *ScenarioHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ConsultationID == "" {
		writeError(w, http.StatusBadRequest, "consultationId is required")
		return
	}

	scenario, err := h.scenarioSvc.ImportFromClark(r.Context(), req.ConsultationID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, scenario)
}
