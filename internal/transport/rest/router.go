package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Amoukli/Coach-AI/internal/service"
	"github.com/Amoukli/Coach-AI/internal/transport/rest/handler"
	"github.com/Amoukli/Coach-AI/internal/transport/rest/middleware"
	"github.com/Amoukli/Coach-AI/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	ScenarioService   *service.ScenarioService
	SessionService    *service.SessionService
	DialogueService   *service.DialogueService
	AssessmentService *service.AssessmentService
	ProgressService   *service.ProgressService
	AnalyticsService  *service.AnalyticsService
	SpeechService     *service.SpeechService
	WSHub             *ws.Hub
	CORSOrigins       []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	scenarioHandler := handler.NewScenarioHandler(c.ScenarioService)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.DialogueService)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, c.ProgressService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService)
	voiceHandler := handler.NewVoiceHandler(c.SpeechService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.DialogueService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/scenarios", scenarioHandler.ListPublished).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/scenarios/{id}", scenarioHandler.Get).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions", sessionHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/messages", sessionHandler.Message).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/state", sessionHandler.State).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/complete", sessionHandler.Complete).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/abandon", sessionHandler.Abandon).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{id}/assessment", assessmentHandler.GetBySession).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/assessments", assessmentHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/skills", assessmentHandler.Skills).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/analytics/dashboard", analyticsHandler.Dashboard).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/analytics/skills-radar", analyticsHandler.SkillsRadar).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/analytics/progress-trend", analyticsHandler.ProgressTrend).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/analytics/recommendations", analyticsHandler.Recommendations).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/analytics/leaderboard", analyticsHandler.Leaderboard).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/voice/synthesize", voiceHandler.Synthesize).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/voice/transcribe", voiceHandler.Transcribe).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/voice/voices", voiceHandler.Voices).Methods("GET", "OPTIONS")

	// Admin routes (scenario authoring)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/admin/scenarios", scenarioHandler.ListAll).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/admin/scenarios", scenarioHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/scenarios/import", scenarioHandler.Import).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/scenarios/{id}", scenarioHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/admin/scenarios/{id}", scenarioHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/admin/scenarios/{id}/publish", scenarioHandler.Publish).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/scenarios/{id}/archive", scenarioHandler.Archive).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/scenarios/{id}/enrich", scenarioHandler.Enrich).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(origins []string) mux.MiddlewareFunc {
	allowedOrigins := "*"
	if len(origins) > 0 {
		allowedOrigins = strings.Join(origins, ", ")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
