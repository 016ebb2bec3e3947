package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/engine"
	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
)

// ProgressService maintains the longitudinal per-user skill records and
// the cached radar snapshot derived from them.
type ProgressService struct {
	progress repository.ProgressRepo
	skills   cache.SkillsCache
}

// NewProgressService creates a new progress service
func NewProgressService(progress repository.ProgressRepo, skills cache.SkillsCache) *ProgressService {
	return &ProgressService{
		progress: progress,
		skills:   skills,
	}
}

// ApplyAssessment folds each of the five sub-scores into the user's
// skill records.
func (s *ProgressService) ApplyAssessment(ctx context.Context, assessment *model.Assessment) error {
	scores := map[string]int{
		model.SkillHistoryTaking:     assessment.HistoryTakingScore,
		model.SkillClinicalReasoning: assessment.ClinicalReasoningScore,
		model.SkillManagement:        assessment.ManagementScore,
		model.SkillCommunication:     assessment.CommunicationScore,
		model.SkillEfficiency:        assessment.EfficiencyScore,
	}

	for _, skill := range model.SkillNames {
		if err := s.Update(ctx, assessment.UserID, skill, scores[skill]); err != nil {
			return err
		}
	}
	return nil
}

// Update applies one new score to a (user, skill) record, creating it
// on first sight.
func (s *ProgressService) Update(ctx context.Context, userID, skillName string, score int) error {
	record, err := s.progress.GetByUserAndSkill(ctx, userID, skillName)
	if err != nil {
		return fmt.Errorf("failed to get skill progress: %w", err)
	}

	if record == nil {
		record = engine.NewSkillProgress(userID, skillName, score)
	} else {
		engine.ApplyScore(record, score)
	}

	if err := s.progress.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to save skill progress: %w", err)
	}

	if err := s.skills.SetLevel(ctx, userID, skillName, record.CurrentLevel); err != nil {
		log.Printf("Warning: failed to cache skill level %s/%s: %v", userID, skillName, err)
	}

	return nil
}

// GetByUser returns all skill records for a user.
func (s *ProgressService) GetByUser(ctx context.Context, userID string) ([]*model.SkillProgress, error) {
	return s.progress.GetByUser(ctx, userID)
}

// Radar returns the user's current level per skill, preferring the
// cached snapshot.
func (s *ProgressService) Radar(ctx context.Context, userID string) (map[string]int, error) {
	radar, err := s.skills.GetRadar(ctx, userID)
	if err == nil && len(radar) > 0 {
		return radar, nil
	}

	records, err := s.progress.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill progress: %w", err)
	}

	radar = make(map[string]int, len(records))
	for _, r := range records {
		radar[r.SkillName] = r.CurrentLevel
		if err := s.skills.SetLevel(ctx, userID, r.SkillName, r.CurrentLevel); err != nil {
			log.Printf("Warning: failed to cache skill level %s/%s: %v", userID, r.SkillName, err)
		}
	}
	return radar, nil
}
