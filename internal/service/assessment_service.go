package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/engine"
	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
)

// AssessmentService produces the immutable scoring record for completed
// sessions and feeds the downstream progress and leaderboard updates.
type AssessmentService struct {
	assessments repository.AssessmentRepo
	progress    *ProgressService
	leaderboard cache.LeaderboardCache
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(assessments repository.AssessmentRepo, progress *ProgressService, leaderboard cache.LeaderboardCache) *AssessmentService {
	return &AssessmentService{
		assessments: assessments,
		progress:    progress,
		leaderboard: leaderboard,
	}
}

// Create scores a completed session. At most one assessment exists per
// session: a second call is a conflict, not a rescore.
func (s *AssessmentService) Create(ctx context.Context, session *model.Session, scenario *model.Scenario) (*model.Assessment, error) {
	exists, err := s.assessments.ExistsForSession(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: session %s already assessed", ErrConflict, session.SessionID)
	}

	metrics := sessionMetrics(session)
	assessment := engine.Calculate(scenario.Rubric, metrics)
	assessment.AssessmentID = "a_" + uuid.New().String()[:8]
	assessment.UserID = session.UserID
	assessment.SessionID = session.SessionID

	if err := s.assessments.Create(ctx, &assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	if err := s.progress.ApplyAssessment(ctx, &assessment); err != nil {
		log.Printf("Warning: failed to update skill progress for %s: %v", session.UserID, err)
	}

	s.updateLeaderboards(ctx, session.UserID, scenario.Specialty)

	return &assessment, nil
}

// Get returns one assessment by its public ID.
func (s *AssessmentService) Get(ctx context.Context, assessmentID string) (*model.Assessment, error) {
	assessment, err := s.assessments.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if assessment == nil {
		return nil, fmt.Errorf("%w: assessment %s", ErrNotFound, assessmentID)
	}
	return assessment, nil
}

// GetBySession returns the assessment for a session, if one exists.
func (s *AssessmentService) GetBySession(ctx context.Context, sessionID string) (*model.Assessment, error) {
	assessment, err := s.assessments.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	if assessment == nil {
		return nil, fmt.Errorf("%w: no assessment for session %s", ErrNotFound, sessionID)
	}
	return assessment, nil
}

// ListByUser returns a user's assessments, newest first.
func (s *AssessmentService) ListByUser(ctx context.Context, userID string, limit int64) ([]*model.Assessment, error) {
	return s.assessments.GetByUser(ctx, userID, limit)
}

// updateLeaderboards reranks the user by their average overall score on
// the global and specialty boards. Best effort.
func (s *AssessmentService) updateLeaderboards(ctx context.Context, userID, specialty string) {
	history, err := s.assessments.GetByUser(ctx, userID, 0)
	if err != nil || len(history) == 0 {
		return
	}

	total := 0
	for _, a := range history {
		total += a.OverallScore
	}
	avg := total / len(history)

	if err := s.leaderboard.UpdateScore(ctx, "", userID, avg); err != nil {
		log.Printf("Warning: failed to update global leaderboard: %v", err)
	}
	if specialty != "" {
		if err := s.leaderboard.UpdateScore(ctx, specialty, userID, avg); err != nil {
			log.Printf("Warning: failed to update %s leaderboard: %v", specialty, err)
		}
	}
}

// sessionMetrics derives the raw scoring inputs from a finished session.
func sessionMetrics(session *model.Session) model.SessionMetrics {
	relevancePct := 0
	if session.QuestionsAsked > 0 {
		relevancePct = session.RelevantQuestions * 100 / session.QuestionsAsked
	}

	diagnosisCorrect := session.DiagnosisCorrect != nil && *session.DiagnosisCorrect

	return model.SessionMetrics{
		TopicsCovered:       session.TopicsCovered,
		RedFlagsCaught:      session.RedFlagsIdentified,
		QuestionsAsked:      session.QuestionsAsked,
		RelevantQuestions:   session.RelevantQuestions,
		RelevancePercentage: relevancePct,
		DurationSec:         session.DurationSec,
		DiagnosisCorrect:    diagnosisCorrect,
	}
}
