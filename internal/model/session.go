package model

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// Terminal reports whether the status accepts no further turns.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

const (
	RoleStudent = "student"
	RolePatient = "patient"
)

type TranscriptEntry struct {
	Role      string    `json:"role" bson:"role"`
	Message   string    `json:"message" bson:"message"`
	Emotion   string    `json:"emotion,omitempty" bson:"emotion,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	AudioURL  string    `json:"audioUrl,omitempty" bson:"audioUrl,omitempty"`
}

// Session is one consultation attempt by one user against one scenario.
type Session struct {
	ID            string            `json:"id" bson:"_id,omitempty"`
	SessionID     string            `json:"sessionId" bson:"sessionId"`
	UserID        string            `json:"userId" bson:"userId"`
	ScenarioID    string            `json:"scenarioId" bson:"scenarioId"`
	Status        SessionStatus     `json:"status" bson:"status"`
	StartedAt     time.Time         `json:"startedAt" bson:"startedAt"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	DurationSec   int               `json:"durationSec,omitempty" bson:"durationSec,omitempty"`
	Transcript    []TranscriptEntry `json:"transcript" bson:"transcript"`
	CurrentNodeID string            `json:"currentNodeId,omitempty" bson:"currentNodeId,omitempty"`

	TopicsCovered      []string `json:"topicsCovered" bson:"topicsCovered"`
	RedFlagsIdentified []string `json:"redFlagsIdentified" bson:"redFlagsIdentified"`
	QuestionsAsked     int      `json:"questionsAsked" bson:"questionsAsked"`
	RelevantQuestions  int      `json:"relevantQuestions" bson:"relevantQuestions"`

	DiagnosisSubmitted string `json:"diagnosisSubmitted,omitempty" bson:"diagnosisSubmitted,omitempty"`
	DiagnosisCorrect   *bool  `json:"diagnosisCorrect,omitempty" bson:"diagnosisCorrect,omitempty"`
}

// SessionState is the live snapshot held in Redis while a session is in
// progress. Cumulative sets only ever grow; counters only ever increase.
type SessionState struct {
	SessionID          string            `json:"sessionId"`
	UserID             string            `json:"userId"`
	ScenarioID         string            `json:"scenarioId"`
	Status             SessionStatus     `json:"status"`
	StartedAt          time.Time         `json:"startedAt"`
	CurrentNodeID      string            `json:"currentNodeId"`
	TopicsCovered      []string          `json:"topicsCovered"`
	RedFlagsIdentified []string          `json:"redFlagsIdentified"`
	QuestionsAsked     int               `json:"questionsAsked"`
	RelevantQuestions  int               `json:"relevantQuestions"`
	Transcript         []TranscriptEntry `json:"transcript"`
}

// TurnMetadata is the per-turn progress block sent back to the client.
type TurnMetadata struct {
	TopicsCovered      []string `json:"topics_covered"`
	RedFlagsIdentified []string `json:"red_flags_identified"`
	QuestionsAsked     int      `json:"questions_asked"`
	RelevantQuestions  int      `json:"relevant_questions"`
}

// PatientTurn is the engine's reply to one student utterance.
type PatientTurn struct {
	Message  string       `json:"message"`
	Emotion  string       `json:"emotion"`
	Audio    []byte       `json:"audio,omitempty"`
	Metadata TurnMetadata `json:"metadata"`
}
