package engine

import (
	"time"

	"github.com/Amoukli/Coach-AI/internal/model"
)

// NewSkillProgress creates the first progress record for a (user, skill)
// pair. A brand-new skill always starts with trend "new".
func NewSkillProgress(userID, skillName string, score int) *model.SkillProgress {
	now := time.Now().UTC()
	return &model.SkillProgress{
		UserID:        userID,
		SkillName:     skillName,
		CurrentLevel:  score,
		PreviousLevel: score,
		LastScore:     score,
		AverageScore:  score,
		SessionsCount: 1,
		Trend:         model.TrendNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyScore folds one new assessment score into an existing progress
// record. The average is a running integer mean over the updated count;
// the trend compares the new score against the level it displaces, with a
// five-point dead band. A displaced level of zero leaves the trend as it
// was.
func ApplyScore(p *model.SkillProgress, score int) {
	p.PreviousLevel = p.CurrentLevel
	p.CurrentLevel = score
	p.SessionsCount++
	p.LastScore = score

	if p.AverageScore != 0 {
		p.AverageScore = (p.AverageScore*(p.SessionsCount-1) + score) / p.SessionsCount
	} else {
		p.AverageScore = score
	}

	if p.PreviousLevel != 0 {
		switch {
		case score > p.PreviousLevel+5:
			p.Trend = model.TrendImproving
		case score < p.PreviousLevel-5:
			p.Trend = model.TrendDeclining
		default:
			p.Trend = model.TrendStable
		}
	}

	p.UpdatedAt = time.Now().UTC()
}
