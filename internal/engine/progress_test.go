package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Amoukli/Coach-AI/internal/model"
)

func TestNewSkillProgress(t *testing.T) {
	p := NewSkillProgress("u1", model.SkillHistoryTaking, 50)

	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, model.SkillHistoryTaking, p.SkillName)
	assert.Equal(t, 50, p.CurrentLevel)
	assert.Equal(t, 50, p.PreviousLevel)
	assert.Equal(t, 50, p.LastScore)
	assert.Equal(t, 50, p.AverageScore)
	assert.Equal(t, 1, p.SessionsCount)
	assert.Equal(t, model.TrendNew, p.Trend)
}

func TestApplyScore_Trend(t *testing.T) {
	tests := []struct {
		name  string
		first int
		next  int
		want  model.Trend
	}{
		{"well above the dead band", 50, 70, model.TrendImproving},
		{"just above the dead band", 50, 56, model.TrendImproving},
		{"upper edge of the dead band", 50, 55, model.TrendStable},
		{"unchanged", 50, 50, model.TrendStable},
		{"lower edge of the dead band", 50, 45, model.TrendStable},
		{"just below the dead band", 50, 44, model.TrendDeclining},
		{"well below the dead band", 50, 30, model.TrendDeclining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSkillProgress("u1", model.SkillCommunication, tt.first)
			ApplyScore(p, tt.next)

			assert.Equal(t, tt.want, p.Trend)
			assert.Equal(t, tt.first, p.PreviousLevel)
			assert.Equal(t, tt.next, p.CurrentLevel)
			assert.Equal(t, tt.next, p.LastScore)
			assert.Equal(t, 2, p.SessionsCount)
		})
	}
}

func TestApplyScore_RunningAverage(t *testing.T) {
	p := NewSkillProgress("u1", model.SkillEfficiency, 50)

	ApplyScore(p, 60)
	assert.Equal(t, 55, p.AverageScore)

	ApplyScore(p, 70)
	// (55*2 + 70) / 3 = 60 with integer truncation.
	assert.Equal(t, 60, p.AverageScore)
	assert.Equal(t, 3, p.SessionsCount)
	assert.Equal(t, 60, p.PreviousLevel)
	assert.Equal(t, 70, p.CurrentLevel)
}

func TestApplyScore_ZeroPreviousLevel(t *testing.T) {
	// A displaced level of zero neither produces a trend nor seeds the
	// running mean; the new score replaces the average outright.
	p := NewSkillProgress("u1", model.SkillManagement, 0)

	ApplyScore(p, 80)

	assert.Equal(t, model.TrendNew, p.Trend)
	assert.Equal(t, 80, p.AverageScore)
	assert.Equal(t, 80, p.CurrentLevel)
	assert.Equal(t, 0, p.PreviousLevel)
	assert.Equal(t, 2, p.SessionsCount)
}
