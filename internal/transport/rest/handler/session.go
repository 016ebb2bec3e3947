package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/service"
	"github.com/Amoukli/Coach-AI/internal/transport/rest/middleware"
)

// SessionHandler handles consultation session endpoints
type SessionHandler struct {
	sessionSvc  *service.SessionService
	dialogueSvc *service.DialogueService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, dialogueSvc *service.DialogueService) *SessionHandler {
	return &SessionHandler{
		sessionSvc:  sessionSvc,
		dialogueSvc: dialogueSvc,
	}
}

// StartRequest is the request body for starting a session
type StartRequest struct {
	ScenarioID string `json:"scenarioId"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ScenarioID == "" {
		writeError(w, http.StatusBadRequest, "scenarioId is required")
		return
	}

	result, err := h.sessionSvc.Start(r.Context(), middleware.GetUserID(r.Context()), req.ScenarioID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.getOwnedSession(w, r)
	if err != nil {
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.SessionStatus(r.URL.Query().Get("status"))

	sessions, err := h.sessionSvc.ListByUser(r.Context(), middleware.GetUserID(r.Context()), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// MessageRequest is the request body for a REST dialogue turn
type MessageRequest struct {
	Message string `json:"message"`
}

// Message handles POST /v1/sessions/{id}/messages, the HTTP
// alternative to the WebSocket dialogue channel.
func (h *SessionHandler) Message(w http.ResponseWriter, r *http.Request) {
	session, err := h.getOwnedSession(w, r)
	if err != nil {
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	turn, err := h.dialogueSvc.IngestUtterance(r.Context(), session.SessionID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, turn)
}

// State handles GET /v1/sessions/{id}/state
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	session, err := h.getOwnedSession(w, r)
	if err != nil {
		return
	}

	state, err := h.dialogueSvc.Snapshot(r.Context(), session.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// CompleteRequest is the request body for completing a session
type CompleteRequest struct {
	Diagnosis string `json:"diagnosis"`
}

// Complete handles POST /v1/sessions/{id}/complete
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	session, err := h.getOwnedSession(w, r)
	if err != nil {
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.sessionSvc.Complete(r.Context(), session.SessionID, req.Diagnosis)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Abandon handles POST /v1/sessions/{id}/abandon
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	session, err := h.getOwnedSession(w, r)
	if err != nil {
		return
	}

	abandoned, err := h.sessionSvc.Abandon(r.Context(), session.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, abandoned)
}

// getOwnedSession loads the session and enforces ownership. On failure
// it writes the response and returns a non-nil error.
func (h *SessionHandler) getOwnedSession(w http.ResponseWriter, r *http.Request) (*model.Session, error) {
	session, err := h.sessionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return nil, err
	}
	if session.UserID != middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "session belongs to another user")
		return nil, service.ErrForbidden
	}
	return session, nil
}
