package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Amoukli/Coach-AI/internal/cache"
	"github.com/Amoukli/Coach-AI/internal/model"
	"github.com/Amoukli/Coach-AI/internal/repository"
)

// AnalyticsService aggregates the read-side views: dashboard, radar,
// trend series, recommendations and leaderboard.
type AnalyticsService struct {
	sessions    repository.SessionRepo
	assessments repository.AssessmentRepo
	scenarios   *ScenarioService
	users       repository.UserRepo
	progress    *ProgressService
	leaderboard cache.LeaderboardCache
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(sessions repository.SessionRepo, assessments repository.AssessmentRepo, scenarios *ScenarioService, users repository.UserRepo, progress *ProgressService, leaderboard cache.LeaderboardCache) *AnalyticsService {
	return &AnalyticsService{
		sessions:    sessions,
		assessments: assessments,
		scenarios:   scenarios,
		users:       users,
		progress:    progress,
		leaderboard: leaderboard,
	}
}

// Dashboard summarizes a user's activity.
type Dashboard struct {
	TotalScenariosCompleted int              `json:"totalScenariosCompleted"`
	TotalTimeSpentMin       int              `json:"totalTimeSpentMin"`
	AverageScore            float64          `json:"averageScore"`
	ScenariosBySpecialty    map[string]int   `json:"scenariosBySpecialty"`
	RecentActivity          []RecentActivity `json:"recentActivity"`
}

type RecentActivity struct {
	SessionID     string              `json:"sessionId"`
	ScenarioTitle string              `json:"scenarioTitle"`
	Date          time.Time           `json:"date"`
	DurationSec   int                 `json:"durationSec"`
	Score         *int                `json:"score,omitempty"`
	Status        model.SessionStatus `json:"status"`
}

// Dashboard builds the dashboard view for a user.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	completed, err := s.sessions.GetByUser(ctx, userID, model.SessionCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	assessments, err := s.assessments.GetByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	totalTimeSec := 0
	bySpecialty := make(map[string]int)
	for _, session := range completed {
		totalTimeSec += session.DurationSec
		meta, err := s.scenarios.Meta(ctx, session.ScenarioID)
		if err != nil {
			continue
		}
		bySpecialty[meta.Specialty]++
	}

	avgScore := 0.0
	if len(assessments) > 0 {
		total := 0
		for _, a := range assessments {
			total += a.OverallScore
		}
		avgScore = float64(total) / float64(len(assessments))
	}

	dashboard := &Dashboard{
		TotalScenariosCompleted: len(completed),
		TotalTimeSpentMin:       totalTimeSec / 60,
		AverageScore:            avgScore,
		ScenariosBySpecialty:    bySpecialty,
	}

	// Last 5 sessions of any status.
	all, err := s.sessions.GetByUser(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(all) > 5 {
		all = all[:5]
	}
	for _, session := range all {
		activity := RecentActivity{
			SessionID:     session.SessionID,
			ScenarioTitle: "Unknown",
			Date:          session.StartedAt,
			DurationSec:   session.DurationSec,
			Status:        session.Status,
		}
		if meta, err := s.scenarios.Meta(ctx, session.ScenarioID); err == nil {
			activity.ScenarioTitle = meta.Title
		}
		if assessment, err := s.assessments.GetBySessionID(ctx, session.SessionID); err == nil && assessment != nil {
			score := assessment.OverallScore
			activity.Score = &score
		}
		dashboard.RecentActivity = append(dashboard.RecentActivity, activity)
	}

	return dashboard, nil
}

// SkillsRadar returns current level per skill, zero-filled for skills
// the user has not touched yet.
func (s *AnalyticsService) SkillsRadar(ctx context.Context, userID string) (map[string]int, error) {
	radar := make(map[string]int, len(model.SkillNames))
	for _, skill := range model.SkillNames {
		radar[skill] = 0
	}

	levels, err := s.progress.Radar(ctx, userID)
	if err != nil {
		return nil, err
	}
	for skill, level := range levels {
		if _, ok := radar[skill]; ok {
			radar[skill] = level
		}
	}
	return radar, nil
}

// TrendPoint is one scored assessment in a trend series.
type TrendPoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// ProgressTrend returns the score series over the lookback window,
// either for one skill or the overall score.
func (s *AnalyticsService) ProgressTrend(ctx context.Context, userID, skill string, days int) ([]TrendPoint, string, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	assessments, err := s.assessments.GetByUser(ctx, userID, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list assessments: %w", err)
	}

	// GetByUser returns newest first; the series reads oldest first.
	var points []TrendPoint
	for i := len(assessments) - 1; i >= 0; i-- {
		a := assessments[i]
		if a.CreatedAt.Before(cutoff) {
			continue
		}

		score := a.OverallScore
		if skill != "" {
			if breakdown, ok := a.SkillsBreakdown[skill]; ok {
				score = breakdown.Score
			}
		}
		points = append(points, TrendPoint{
			Date:  a.CreatedAt.Format("2006-01-02"),
			Score: score,
		})
	}

	label := skill
	if label == "" {
		label = "overall"
	}
	return points, label, nil
}

// Recommendation is one suggested scenario.
type Recommendation struct {
	ScenarioID   string           `json:"scenarioId"`
	Title        string           `json:"title"`
	Specialty    string           `json:"specialty"`
	Difficulty   model.Difficulty `json:"difficulty"`
	AverageScore int              `json:"averageScore"`
	Reason       string           `json:"reason"`
}

// Recommendations suggests published scenarios the user has not
// completed, annotated with their weakest skills.
func (s *AnalyticsService) Recommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = 5
	}

	records, err := s.progress.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Two lowest current levels are the weak areas.
	var weakSkills []string
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if records[j].CurrentLevel < records[i].CurrentLevel {
				records[i], records[j] = records[j], records[i]
			}
		}
	}
	for i := 0; i < len(records) && i < 2; i++ {
		weakSkills = append(weakSkills, records[i].SkillName)
	}

	completed, err := s.sessions.GetByUser(ctx, userID, model.SessionCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	done := make(map[string]bool, len(completed))
	for _, session := range completed {
		done[session.ScenarioID] = true
	}

	published, err := s.scenarios.List(ctx, repository.ScenarioFilter{Status: model.ScenarioPublished})
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	reason := "Popular scenario"
	if len(weakSkills) > 0 {
		readable := make([]string, len(weakSkills))
		for i, skill := range weakSkills {
			readable[i] = strings.ReplaceAll(skill, "_", " ")
		}
		reason = "Recommended to improve " + strings.Join(readable, ", ")
	}

	var recommendations []Recommendation
	for _, scenario := range published {
		if done[scenario.ScenarioID] {
			continue
		}
		recommendations = append(recommendations, Recommendation{
			ScenarioID:   scenario.ScenarioID,
			Title:        scenario.Title,
			Specialty:    scenario.Specialty,
			Difficulty:   scenario.Difficulty,
			AverageScore: scenario.AverageScore,
			Reason:       reason,
		})
		if len(recommendations) == limit {
			break
		}
	}

	return recommendations, nil
}

// Leaderboard returns the ranked top users, resolving display names
// from Mongo.
func (s *AnalyticsService) Leaderboard(ctx context.Context, specialty string, limit int) ([]cache.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	entries, err := s.leaderboard.GetTop(ctx, specialty, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	for i := range entries {
		user, err := s.users.GetByID(ctx, entries[i].UserID)
		if err != nil || user == nil {
			log.Printf("Warning: leaderboard user %s not found", entries[i].UserID)
			continue
		}
		entries[i].Username = user.FullName()
	}

	return entries, nil
}
