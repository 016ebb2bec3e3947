package handler

import (
	"net/http"
	"strconv"

	"github.com/Amoukli/Coach-AI/internal/service"
	"github.com/Amoukli/Coach-AI/internal/transport/rest/middleware"
)

// AnalyticsHandler handles the read-side analytics endpoints
type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Dashboard handles GET /v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.analyticsSvc.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// SkillsRadar handles GET /v1/analytics/skills-radar
func (h *AnalyticsHandler) SkillsRadar(w http.ResponseWriter, r *http.Request) {
	radar, err := h.analyticsSvc.SkillsRadar(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"skills": radar})
}

// ProgressTrend handles GET /v1/analytics/progress-trend
func (h *AnalyticsHandler) ProgressTrend(w http.ResponseWriter, r *http.Request) {
	skill := r.URL.Query().Get("skill")
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	points, label, err := h.analyticsSvc.ProgressTrend(r.Context(), middleware.GetUserID(r.Context()), skill, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"skill":  label,
		"points": points,
	})
}

// Recommendations handles GET /v1/analytics/recommendations
func (h *AnalyticsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recommendations, err := h.analyticsSvc.Recommendations(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendations": recommendations})
}

// Leaderboard handles GET /v1/analytics/leaderboard
func (h *AnalyticsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	specialty := r.URL.Query().Get("specialty")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.analyticsSvc.Leaderboard(r.Context(), specialty, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
