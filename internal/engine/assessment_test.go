package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amoukli/Coach-AI/internal/model"
)

func TestCalculate_FullSession(t *testing.T) {
	rubric := model.Rubric{
		MustAsk:      []string{"pain_duration", "pain_location"},
		RedFlags:     []string{"crushing_pain", "sweating"},
		TimeLimitMin: 15,
	}
	metrics := model.SessionMetrics{
		TopicsCovered:       []string{"pain_duration"},
		RedFlagsCaught:      []string{"crushing_pain"},
		QuestionsAsked:      10,
		RelevantQuestions:   7,
		RelevancePercentage: 70,
		DurationSec:         600,
		DiagnosisCorrect:    true,
	}

	got := Calculate(rubric, metrics)

	// int(50*0.7 + 70*0.3) = 56
	assert.Equal(t, 56, got.HistoryTakingScore)
	// int(50*0.4 + 100*0.6) = 80
	assert.Equal(t, 80, got.ClinicalReasoningScore)
	assert.Equal(t, 80, got.ManagementScore)
	assert.Equal(t, 70, got.CommunicationScore)
	// 600s falls inside the 450-810s optimal window, 10 questions is no penalty.
	assert.Equal(t, 100, got.EfficiencyScore)
	// int(56*0.30 + 80*0.25 + 80*0.20 + 70*0.15 + 100*0.10) = 73
	assert.Equal(t, 73, got.OverallScore)

	assert.Equal(t, "Good work! Focus on taking a more comprehensive history. ", got.FeedbackSummary)
	assert.Equal(t, []string{"Strong clinical reasoning", "Strong management", "Strong efficiency"}, got.Strengths)
	assert.Equal(t, []string{"Improve history taking"}, got.AreasForImprovement)

	require.Len(t, got.SkillsBreakdown, 5)
	assert.Equal(t, 56, got.SkillsBreakdown[model.SkillHistoryTaking].Score)
	assert.Equal(t, "Covered 1/2 essential topics. Missed: pain_location.", got.SkillsBreakdown[model.SkillHistoryTaking].Details)
	assert.Equal(t, "Diagnosis: Correct. Identified 1 red flag(s).", got.SkillsBreakdown[model.SkillClinicalReasoning].Details)
	assert.Equal(t, "Asked 10 questions, 7 were relevant.", got.SkillsBreakdown[model.SkillCommunication].Details)
	assert.Equal(t, "Completed in 10 minutes (target: 15 minutes).", got.SkillsBreakdown[model.SkillEfficiency].Details)
	assert.Equal(t, metrics, got.Metrics)
}

func TestCalculate_EmptyRubric(t *testing.T) {
	got := Calculate(model.Rubric{}, model.SessionMetrics{})

	assert.Equal(t, 75, got.HistoryTakingScore)
	// int(75*0.4 + 30*0.6) = 48
	assert.Equal(t, 48, got.ClinicalReasoningScore)
	assert.Equal(t, 50, got.ManagementScore)
	assert.Equal(t, 50, got.CommunicationScore)
	assert.Equal(t, 70, got.EfficiencyScore)
	assert.Equal(t, 59, got.OverallScore)
	assert.Equal(t, []string{"Completed the scenario"}, got.Strengths)

	for skill, breakdown := range got.SkillsBreakdown {
		assert.GreaterOrEqual(t, breakdown.Score, 0, skill)
		assert.LessOrEqual(t, breakdown.Score, 100, skill)
	}
}

func TestHistoryTakingScore(t *testing.T) {
	tests := []struct {
		name    string
		rubric  model.Rubric
		metrics model.SessionMetrics
		want    int
	}{
		{
			name:    "no must-ask topics defaults to 75",
			rubric:  model.Rubric{},
			metrics: model.SessionMetrics{TopicsCovered: []string{"pain_duration"}},
			want:    75,
		},
		{
			name:   "half coverage with 70 relevance",
			rubric: model.Rubric{MustAsk: []string{"pain_duration", "pain_location"}},
			metrics: model.SessionMetrics{
				TopicsCovered:       []string{"pain_duration"},
				RelevancePercentage: 70,
			},
			want: 56,
		},
		{
			name:   "full coverage full relevance",
			rubric: model.Rubric{MustAsk: []string{"pain_duration"}},
			metrics: model.SessionMetrics{
				TopicsCovered:       []string{"pain_duration"},
				RelevancePercentage: 100,
			},
			want: 100,
		},
		{
			name:    "no coverage no relevance",
			rubric:  model.Rubric{MustAsk: []string{"pain_duration"}},
			metrics: model.SessionMetrics{},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, historyTakingScore(tt.rubric, tt.metrics))
		})
	}
}

func TestClinicalReasoningScore(t *testing.T) {
	// No expected red flags plus a correct diagnosis: int(75*0.4 + 100*0.6) = 90.
	got := clinicalReasoningScore(model.Rubric{}, model.SessionMetrics{DiagnosisCorrect: true})
	assert.Equal(t, 90, got)

	// All red flags caught, wrong diagnosis: int(100*0.4 + 30*0.6) = 58.
	got = clinicalReasoningScore(
		model.Rubric{RedFlags: []string{"sweating"}},
		model.SessionMetrics{RedFlagsCaught: []string{"sweating"}},
	)
	assert.Equal(t, 58, got)
}

func TestCommunicationScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.SessionMetrics
		want    int
	}{
		{"zero questions", model.SessionMetrics{}, 50},
		{"clean ratio", model.SessionMetrics{QuestionsAsked: 10, RelevantQuestions: 7}, 70},
		{"too few questions", model.SessionMetrics{QuestionsAsked: 4, RelevantQuestions: 4}, 80},
		{"too many questions", model.SessionMetrics{QuestionsAsked: 35, RelevantQuestions: 35}, 90},
		{"penalty clamps at zero", model.SessionMetrics{QuestionsAsked: 4, RelevantQuestions: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, communicationScore(tt.metrics))
		})
	}
}

func TestEfficiencyScore(t *testing.T) {
	rubric := model.Rubric{TimeLimitMin: 15} // 900s limit, optimal 450-810s

	tests := []struct {
		name    string
		metrics model.SessionMetrics
		want    int
	}{
		{"no duration recorded", model.SessionMetrics{QuestionsAsked: 10}, 70},
		{"inside optimal window", model.SessionMetrics{DurationSec: 600, QuestionsAsked: 10}, 100},
		{"too fast", model.SessionMetrics{DurationSec: 200, QuestionsAsked: 10}, 70},
		{"between optimal and limit", model.SessionMetrics{DurationSec: 850, QuestionsAsked: 10}, 85},
		{"fifty percent over limit", model.SessionMetrics{DurationSec: 1350, QuestionsAsked: 10}, 50},
		{"overrun floors at fifty", model.SessionMetrics{DurationSec: 3600, QuestionsAsked: 10}, 50},
		{"few questions penalty", model.SessionMetrics{DurationSec: 600, QuestionsAsked: 3}, 90},
		{"many questions penalty", model.SessionMetrics{DurationSec: 600, QuestionsAsked: 30}, 85},
		{"zero questions skips the count penalty", model.SessionMetrics{DurationSec: 600}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, efficiencyScore(rubric, tt.metrics))
		})
	}
}

func TestCalculate_ScoresAlwaysInRange(t *testing.T) {
	rubrics := []model.Rubric{
		{},
		{MustAsk: []string{"a", "b", "c"}, RedFlags: []string{"x"}, TimeLimitMin: 1},
		{TimeLimitMin: 120},
	}
	metrics := []model.SessionMetrics{
		{},
		{QuestionsAsked: 100, RelevantQuestions: 100, DurationSec: 100000, RelevancePercentage: 100},
		{QuestionsAsked: 1, DurationSec: 1},
	}

	for _, r := range rubrics {
		for _, m := range metrics {
			got := Calculate(r, m)
			for _, score := range []int{
				got.OverallScore,
				got.HistoryTakingScore,
				got.ClinicalReasoningScore,
				got.ManagementScore,
				got.CommunicationScore,
				got.EfficiencyScore,
			} {
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}
