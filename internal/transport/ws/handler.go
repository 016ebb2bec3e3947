package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	dialogue *service.DialogueService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, dialogue *service.DialogueService) *Handler {
	return &Handler{
		hub:      hub,
		authSvc:  authSvc,
		dialogue: dialogue,
	}
}

// patientResponseFrame is the flat patient_response frame: message,
// emotion, audio and metadata sit beside the type tag.
type patientResponseFrame struct {
	Type MessageType `json:"type"`
	*model.PatientTurn
}

type sessionStateFrame struct {
	Type MessageType `json:"type"`
	*model.SessionState
}

type errorFrame struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error"`
}

// SessionWS handles GET /v1/ws/sessions/{id}
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	state, err := h.dialogue.Snapshot(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	if state.UserID != claims.UserID {
		http.Error(w, "session belongs to another user", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SessionID: sessionID,
		UserID:    claims.UserID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	log.Printf("Student %s connected to session %s via WebSocket", claims.UserID, sessionID)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}

		h.handleMessage(conn, &msg)
	}
}

// handleMessage dispatches one inbound client message. Errors go back
// as an error frame; the connection stays open.
func (h *Handler) handleMessage(conn *Connection, msg *Message) {
	ctx := context.Background()

	switch msg.Type {
	case MsgStudentMessage:
		if msg.Message == "" {
			h.sendError(conn, "message text is required")
			return
		}

		turn, err := h.dialogue.IngestUtterance(ctx, conn.SessionID, msg.Message)
		if err != nil {
			log.Printf("Warning: failed to process utterance for %s: %v", conn.SessionID, err)
			h.sendError(conn, wsErrorText(err))
			return
		}
		h.hub.SendToSession(conn.SessionID, patientResponseFrame{Type: MsgPatientResponse, PatientTurn: turn})

	case MsgGetState:
		state, err := h.dialogue.Snapshot(ctx, conn.SessionID)
		if err != nil {
			h.sendError(conn, wsErrorText(err))
			return
		}
		h.hub.SendToSession(conn.SessionID, sessionStateFrame{Type: MsgSessionState, SessionState: state})

	default:
		h.sendError(conn, "unknown message type")
	}
}

func (h *Handler) sendError(conn *Connection, text string) {
	h.hub.SendToSession(conn.SessionID, errorFrame{Type: MsgError, Error: text})
}

// wsErrorText maps service errors onto client-safe text.
func wsErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "session not found"
	case errors.Is(err, service.ErrInvalidState):
		return "session is no longer active"
	default:
		return "failed to process message"
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
