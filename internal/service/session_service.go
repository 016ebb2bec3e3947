package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/engine"
	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
)

// SessionService owns the consultation session lifecycle. Live state is
// kept in Redis while a session is in progress and folded back into
// Mongo when it ends.
type SessionService struct {
	sessions    repository.SessionRepo
	users       repository.UserRepo
	scenarios   *ScenarioService
	state       cache.SessionCache
	assessments *AssessmentService
}

// NewSessionService creates a new session service
func NewSessionService(sessions repository.SessionRepo, users repository.UserRepo, scenarios *ScenarioService, state cache.SessionCache, assessments *AssessmentService) *SessionService {
	return &SessionService{
		sessions:    sessions,
		users:       users,
		scenarios:   scenarios,
		state:       state,
		assessments: assessments,
	}
}

// StartResult carries the new session plus the patient's opening line.
type StartResult struct {
	Session        *model.Session `json:"session"`
	PatientMessage string         `json:"patientMessage"`
}

// Start opens a new session against a published scenario and returns
// the patient's opening complaint.
func (s *SessionService) Start(ctx context.Context, userID, scenarioID string) (*StartResult, error) {
	scenario, err := s.scenarios.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if scenario.Status != model.ScenarioPublished {
		return nil, fmt.Errorf("%w: scenario %s is not published", ErrInvalidState, scenarioID)
	}

	greeting := "Hello, doctor."
	if root, ok := scenario.RootNode(); ok && root.PatientSays != "" {
		greeting = root.PatientSays
	}

	now := time.Now().UTC()
	session := &model.Session{
		SessionID:     "s_" + uuid.New().String()[:8],
		UserID:        userID,
		ScenarioID:    scenarioID,
		Status:        model.SessionInProgress,
		StartedAt:     now,
		CurrentNodeID: "root",
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	meta := &cache.SessionMeta{
		SessionID:     session.SessionID,
		UserID:        userID,
		ScenarioID:    scenarioID,
		Status:        model.SessionInProgress,
		StartedAt:     now,
		CurrentNodeID: "root",
	}
	if err := s.state.SetMeta(ctx, session.SessionID, meta); err != nil {
		return nil, fmt.Errorf("failed to cache session state: %w", err)
	}

	opening := &model.TranscriptEntry{
		Role:      model.RolePatient,
		Message:   greeting,
		Emotion:   "neutral",
		Timestamp: now,
	}
	if err := s.state.AppendTranscript(ctx, session.SessionID, opening); err != nil {
		return nil, fmt.Errorf("failed to record opening line: %w", err)
	}

	return &StartResult{Session: session, PatientMessage: greeting}, nil
}

// Get returns a session, overlaying live cached state for sessions
// still in progress.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	if session.Status == model.SessionInProgress {
		if err := s.overlayLiveState(ctx, session); err != nil {
			log.Printf("Warning: failed to read live state for %s: %v", sessionID, err)
		}
	}

	return session, nil
}

// ListByUser returns a user's sessions, optionally filtered by status.
func (s *SessionService) ListByUser(ctx context.Context, userID string, status model.SessionStatus) ([]*model.Session, error) {
	return s.sessions.GetByUser(ctx, userID, status)
}

// Abandon ends a session without assessment.
func (s *SessionService) Abandon(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %s already %s", ErrInvalidState, sessionID, session.Status)
	}

	now := time.Now().UTC()
	session.Status = model.SessionAbandoned
	session.CompletedAt = &now
	session.DurationSec = int(now.Sub(session.StartedAt).Seconds())

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to abandon session: %w", err)
	}

	if err := s.state.Clear(ctx, sessionID); err != nil {
		log.Printf("Warning: failed to clear session state %s: %v", sessionID, err)
	}

	return session, nil
}

// CompleteResult is the outcome of finishing a session.
type CompleteResult struct {
	Session    *model.Session    `json:"session"`
	Assessment *model.Assessment `json:"assessment"`
}

// Complete finalizes an in-progress session: duration and diagnosis are
// fixed, live state moves from Redis into the session record, and
// exactly one assessment is produced. Completing an already-completed
// session is a conflict, never a second assessment.
func (s *SessionService) Complete(ctx context.Context, sessionID, diagnosis string) (*CompleteResult, error) {
	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session %s already %s", ErrConflict, sessionID, session.Status)
	}

	if err := s.overlayLiveState(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to read live state: %w", err)
	}

	scenario, err := s.scenarios.Get(ctx, session.ScenarioID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session.Status = model.SessionCompleted
	session.CompletedAt = &now
	session.DurationSec = int(now.Sub(session.StartedAt).Seconds())
	session.DiagnosisSubmitted = diagnosis

	if diagnosis != "" {
		correct := strings.EqualFold(strings.TrimSpace(diagnosis), strings.TrimSpace(scenario.CorrectDiagnosis))
		session.DiagnosisCorrect = &correct
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	assessment, err := s.assessments.Create(ctx, session, scenario)
	if err != nil {
		return nil, err
	}

	s.recordCompletion(ctx, session, scenario, assessment)

	if err := s.state.Clear(ctx, sessionID); err != nil {
		log.Printf("Warning: failed to clear session state %s: %v", sessionID, err)
	}

	return &CompleteResult{Session: session, Assessment: assessment}, nil
}

// overlayLiveState folds the Redis dialogue state into the session.
// The cumulative sets merge; they never shrink or reorder.
func (s *SessionService) overlayLiveState(ctx context.Context, session *model.Session) error {
	topics, err := s.state.GetTopics(ctx, session.SessionID)
	if err != nil {
		return err
	}
	redFlags, err := s.state.GetRedFlags(ctx, session.SessionID)
	if err != nil {
		return err
	}
	questions, relevant, err := s.state.GetCounters(ctx, session.SessionID)
	if err != nil {
		return err
	}
	transcript, err := s.state.GetTranscript(ctx, session.SessionID)
	if err != nil {
		return err
	}

	session.TopicsCovered = engine.MergeNew(session.TopicsCovered, topics)
	session.RedFlagsIdentified = engine.MergeNew(session.RedFlagsIdentified, redFlags)
	if questions > 0 {
		session.QuestionsAsked = questions
	}
	if relevant > 0 {
		session.RelevantQuestions = relevant
	}
	if len(transcript) > 0 {
		session.Transcript = transcript
	}

	if meta, err := s.state.GetMeta(ctx, session.SessionID); err == nil && meta != nil {
		session.CurrentNodeID = meta.CurrentNodeID
	}

	return nil
}

// recordCompletion updates the aggregate counters that hang off a
// finished session. Failures here are logged, not surfaced; the
// assessment already exists.
func (s *SessionService) recordCompletion(ctx context.Context, session *model.Session, scenario *model.Scenario, assessment *model.Assessment) {
	completionMin := session.DurationSec / 60
	if err := s.scenarios.RecordPlay(ctx, scenario.ScenarioID, assessment.OverallScore, completionMin); err != nil {
		log.Printf("Warning: failed to record scenario play %s: %v", scenario.ScenarioID, err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		log.Printf("Warning: failed to load user %s for counters: %v", session.UserID, err)
		return
	}
	user.TotalScenariosCompleted++
	user.TotalTimeSpentSec += session.DurationSec
	if err := s.users.Update(ctx, user); err != nil {
		log.Printf("Warning: failed to update user counters %s: %v", session.UserID, err)
	}
}
