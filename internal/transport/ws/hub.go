package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Client message types
const (
	MsgStudentMessage MessageType = "student_message"
	MsgGetState       MessageType = "get_state"
)

// Server message types
const (
	MsgPatientResponse MessageType = "patient_response"
	MsgSessionState    MessageType = "session_state"
	MsgError           MessageType = "error"
)

// Message is one inbound client frame. Everything sits at the top level
// beside the type tag; there is no payload wrapper.
type Message struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message,omitempty"`
}

// Hub manages WebSocket connections for consultation sessions
type Hub struct {
	// sessionID -> connection; one student per session
	conns map[string]*Connection

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *SessionMessage
}

// Connection represents a WebSocket connection bound to one session
type Connection struct {
	SessionID string
	UserID    string
	Send      chan []byte
	Hub       *Hub
}

// SessionMessage is an encoded frame addressed to one session's connection
type SessionMessage struct {
	SessionID string
	Data      []byte
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *SessionMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			// A reconnect replaces the previous connection.
			if existing, ok := h.conns[conn.SessionID]; ok {
				close(existing.Send)
			}
			h.conns[conn.SessionID] = conn
			h.mu.Unlock()
			log.Printf("Student %s connected to session %s", conn.UserID, conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok && existing == conn {
				delete(h.conns, conn.SessionID)
				close(conn.Send)
				log.Printf("Student %s disconnected from session %s", conn.UserID, conn.SessionID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			if conn, ok := h.conns[msg.SessionID]; ok {
				select {
				case conn.Send <- msg.Data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SendToSession marshals one outbound frame and delivers it to the
// session's connection. v must carry its own type tag.
func (h *Hub) SendToSession(sessionID string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Warning: failed to encode frame for %s: %v", sessionID, err)
		return
	}
	h.broadcast <- &SessionMessage{
		SessionID: sessionID,
		Data:      data,
	}
}
