package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/engine"
	"github.com/Amoukli/Coach-AI/internal/model"
)

// Responder generates the next patient turn. Implementations must not
// fail: any upstream trouble resolves to the canned fallback reply.
type Responder interface {
	Generate(ctx context.Context, scenario *model.Scenario, recent []model.TranscriptEntry, studentMessage string) PatientReply
}

// Synthesizer turns a reply into audio. Optional; failures cost only
// the audio, never the turn.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceName, emotion string) ([]byte, error)
}

// DialogueService runs one consultation turn: classify the utterance,
// grow the session state, generate the patient's reply.
type DialogueService struct {
	scenarios *ScenarioService
	state     cache.SessionCache
	responder Responder
	speech    Synthesizer
}

// NewDialogueService creates a new dialogue service. speech may be nil
// when voice is not configured.
func NewDialogueService(scenarios *ScenarioService, state cache.SessionCache, responder Responder, speech Synthesizer) *DialogueService {
	return &DialogueService{
		scenarios: scenarios,
		state:     state,
		responder: responder,
		speech:    speech,
	}
}

// IngestUtterance processes one student utterance for an in-progress
// session and returns the resulting patient turn.
func (s *DialogueService) IngestUtterance(ctx context.Context, sessionID, message string) (*model.PatientTurn, error) {
	meta, err := s.state.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}
	if meta == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if meta.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %s is %s", ErrInvalidState, sessionID, meta.Status)
	}

	scenario, err := s.scenarios.Get(ctx, meta.ScenarioID)
	if err != nil {
		return nil, err
	}

	var expectedTopics []string
	if node, ok := scenario.DialogueTree[meta.CurrentNodeID]; ok {
		expectedTopics = node.ExpectedTopics
	}

	analysis := engine.Extract(message, expectedTopics)

	if _, err := s.state.IncrQuestions(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to count question: %w", err)
	}
	if analysis.IsRelevant {
		if _, err := s.state.IncrRelevant(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("failed to count relevant question: %w", err)
		}
	}
	if err := s.state.AddTopics(ctx, sessionID, analysis.Topics...); err != nil {
		return nil, fmt.Errorf("failed to record topics: %w", err)
	}
	if err := s.state.AddRedFlags(ctx, sessionID, analysis.RedFlags...); err != nil {
		return nil, fmt.Errorf("failed to record red flags: %w", err)
	}

	recent, err := s.state.GetTranscriptTail(ctx, sessionID, 6)
	if err != nil {
		log.Printf("Warning: failed to read transcript tail %s: %v", sessionID, err)
	}

	reply := s.responder.Generate(ctx, scenario, recent, message)

	now := time.Now().UTC()
	studentEntry := &model.TranscriptEntry{
		Role:      model.RoleStudent,
		Message:   message,
		Timestamp: now,
	}
	patientEntry := &model.TranscriptEntry{
		Role:      model.RolePatient,
		Message:   reply.Text,
		Emotion:   reply.Emotion,
		Timestamp: now,
	}
	if err := s.state.AppendTranscript(ctx, sessionID, studentEntry); err != nil {
		return nil, fmt.Errorf("failed to append transcript: %w", err)
	}
	if err := s.state.AppendTranscript(ctx, sessionID, patientEntry); err != nil {
		return nil, fmt.Errorf("failed to append transcript: %w", err)
	}

	turn := &model.PatientTurn{
		Message: reply.Text,
		Emotion: reply.Emotion,
	}

	if s.speech != nil {
		voice := VoiceForProfile(scenario.Patient.Voice)
		audio, err := s.speech.Synthesize(ctx, reply.Text, voice, reply.Emotion)
		if err != nil {
			log.Printf("Warning: speech synthesis failed for %s: %v", sessionID, err)
		} else {
			turn.Audio = audio
		}
	}

	metadata, err := s.metadata(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	turn.Metadata = metadata

	return turn, nil
}

// Snapshot assembles the live session state for progress displays.
func (s *DialogueService) Snapshot(ctx context.Context, sessionID string) (*model.SessionState, error) {
	meta, err := s.state.GetMeta(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}
	if meta == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	topics, err := s.state.GetTopics(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	redFlags, err := s.state.GetRedFlags(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	questions, relevant, err := s.state.GetCounters(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	transcript, err := s.state.GetTranscript(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &model.SessionState{
		SessionID:          meta.SessionID,
		UserID:             meta.UserID,
		ScenarioID:         meta.ScenarioID,
		Status:             meta.Status,
		StartedAt:          meta.StartedAt,
		CurrentNodeID:      meta.CurrentNodeID,
		TopicsCovered:      topics,
		RedFlagsIdentified: redFlags,
		QuestionsAsked:     questions,
		RelevantQuestions:  relevant,
		Transcript:         transcript,
	}, nil
}

func (s *DialogueService) metadata(ctx context.Context, sessionID string) (model.TurnMetadata, error) {
	topics, err := s.state.GetTopics(ctx, sessionID)
	if err != nil {
		return model.TurnMetadata{}, err
	}
	redFlags, err := s.state.GetRedFlags(ctx, sessionID)
	if err != nil {
		return model.TurnMetadata{}, err
	}
	questions, relevant, err := s.state.GetCounters(ctx, sessionID)
	if err != nil {
		return model.TurnMetadata{}, err
	}

	return model.TurnMetadata{
		TopicsCovered:      topics,
		RedFlagsIdentified: redFlags,
		QuestionsAsked:     questions,
		RelevantQuestions:  relevant,
	}, nil
}
