package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amoukli/Coach-AI/internal/model"
)

func receiveFrame(t *testing.T, conn *Connection) map[string]interface{} {
	t.Helper()
	select {
	case data := <-conn.Send:
		var frame map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
		return nil
	}
}

func TestInboundFrameIsFlat(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type":"student_message","message":"Where does it hurt?"}`), &msg))

	assert.Equal(t, MsgStudentMessage, msg.Type)
	assert.Equal(t, "Where does it hurt?", msg.Message)

	msg = Message{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"get_state"}`), &msg))
	assert.Equal(t, MsgGetState, msg.Type)
	assert.Empty(t, msg.Message)
}

func TestSendToSession_PatientResponseIsFlat(t *testing.T) {
	hub := NewHub()
	conn := &Connection{SessionID: "s_abc12345", UserID: "u_1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)
	defer hub.Unregister(conn)

	hub.SendToSession("s_abc12345", patientResponseFrame{
		Type: MsgPatientResponse,
		PatientTurn: &model.PatientTurn{
			Message: "It started about an hour ago.",
			Emotion: "fearful",
			Metadata: model.TurnMetadata{
				TopicsCovered:     []string{"pain_duration"},
				QuestionsAsked:    1,
				RelevantQuestions: 1,
			},
		},
	})

	frame := receiveFrame(t, conn)
	assert.Equal(t, "patient_response", frame["type"])
	assert.Equal(t, "It started about an hour ago.", frame["message"])
	assert.Equal(t, "fearful", frame["emotion"])
	assert.Contains(t, frame, "metadata")
	assert.NotContains(t, frame, "payload")

	metadata, ok := frame["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), metadata["questions_asked"])
}

func TestSendToSession_ErrorFrameIsFlat(t *testing.T) {
	hub := NewHub()
	conn := &Connection{SessionID: "s_err00001", UserID: "u_1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)
	defer hub.Unregister(conn)

	hub.SendToSession("s_err00001", errorFrame{Type: MsgError, Error: "session is no longer active"})

	frame := receiveFrame(t, conn)
	assert.Equal(t, "error", frame["type"])
	assert.Equal(t, "session is no longer active", frame["error"])
	assert.NotContains(t, frame, "payload")
}

func TestSendToSession_ReconnectReplacesConnection(t *testing.T) {
	hub := NewHub()
	first := &Connection{SessionID: "s_dup00001", UserID: "u_1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(first)

	second := &Connection{SessionID: "s_dup00001", UserID: "u_1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(second)
	defer hub.Unregister(second)

	// The replaced connection's channel is closed.
	select {
	case _, open := <-first.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("replaced connection not closed")
	}

	hub.SendToSession("s_dup00001", errorFrame{Type: MsgError, Error: "x"})
	frame := receiveFrame(t, second)
	assert.Equal(t, "error", frame["type"])
}
