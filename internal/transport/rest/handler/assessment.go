package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Amoukli/Coach-AI/internal/service"
	"github.com/Amoukli/Coach-AI/internal/transport/rest/middleware"
)

// AssessmentHandler handles assessment read endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
	progressSvc   *service.ProgressService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService, progressSvc *service.ProgressService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentSvc: assessmentSvc,
		progressSvc:   progressSvc,
	}
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.assessmentSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if assessment.UserID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "assessment belongs to another user")
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// GetBySession handles GET /v1/sessions/{id}/assessment
func (h *AssessmentHandler) GetBySession(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.assessmentSvc.GetBySession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if assessment.UserID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "assessment belongs to another user")
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// Skills handles GET /v1/assessments/skills
func (h *AssessmentHandler) Skills(w http.ResponseWriter, r *http.Request) {
	records, err := h.progressSvc.GetByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"skills": records})
}

// List handles GET /v1/assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	assessments, err := h.assessmentSvc.ListByUser(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": assessments})
}
