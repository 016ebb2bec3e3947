package engine

import (
	"fmt"
	"strings"

	"github.com/Amoukli/Coach-AI/internal/model"
)

const defaultTimeLimitMin = 15

// Calculate grades a completed session against a scenario rubric. It is a
// pure function: identifiers and timestamps are left for the caller to
// fill in. Sub-scores and the overall score are always clamped to [0,100]
// and an empty rubric never causes an error, only default scores.
func Calculate(rubric model.Rubric, metrics model.SessionMetrics) model.Assessment {
	history := historyTakingScore(rubric, metrics)
	reasoning := clinicalReasoningScore(rubric, metrics)
	management := managementScore(metrics)
	communication := communicationScore(metrics)
	efficiency := efficiencyScore(rubric, metrics)

	overall := int(float64(history)*0.30 +
		float64(reasoning)*0.25 +
		float64(management)*0.20 +
		float64(communication)*0.15 +
		float64(efficiency)*0.10)

	scores := map[string]int{
		model.SkillHistoryTaking:     history,
		model.SkillClinicalReasoning: reasoning,
		model.SkillManagement:        management,
		model.SkillCommunication:     communication,
		model.SkillEfficiency:        efficiency,
	}

	return model.Assessment{
		OverallScore:           overall,
		HistoryTakingScore:     history,
		ClinicalReasoningScore: reasoning,
		ManagementScore:        management,
		CommunicationScore:     communication,
		EfficiencyScore:        efficiency,
		Metrics:                metrics,
		SkillsBreakdown: map[string]model.SkillScore{
			model.SkillHistoryTaking:     {Score: history, Details: historyTakingDetails(rubric, metrics)},
			model.SkillClinicalReasoning: {Score: reasoning, Details: clinicalReasoningDetails(metrics)},
			model.SkillManagement:        {Score: management, Details: "Management plan assessment based on diagnosis accuracy."},
			model.SkillCommunication:     {Score: communication, Details: communicationDetails(metrics)},
			model.SkillEfficiency:        {Score: efficiency, Details: efficiencyDetails(rubric, metrics)},
		},
		FeedbackSummary:     feedbackSummary(history, reasoning, management, communication, efficiency),
		Strengths:           identifyStrengths(scores),
		AreasForImprovement: identifyImprovements(scores),
	}
}

func historyTakingScore(rubric model.Rubric, metrics model.SessionMetrics) int {
	if len(rubric.MustAsk) == 0 {
		return 75
	}

	covered := intersectCount(metrics.TopicsCovered, rubric.MustAsk)
	coverage := float64(covered) / float64(len(rubric.MustAsk)) * 100

	score := int(coverage*0.7 + float64(metrics.RelevancePercentage)*0.3)
	return clamp(score)
}

func clinicalReasoningScore(rubric model.Rubric, metrics model.SessionMetrics) int {
	redFlagScore := 75.0
	if len(rubric.RedFlags) > 0 {
		caught := intersectCount(metrics.RedFlagsCaught, rubric.RedFlags)
		redFlagScore = float64(caught) / float64(len(rubric.RedFlags)) * 100
	}

	diagnosisScore := 30.0
	if metrics.DiagnosisCorrect {
		diagnosisScore = 100
	}

	return clamp(int(redFlagScore*0.4 + diagnosisScore*0.6))
}

func managementScore(metrics model.SessionMetrics) int {
	// Good management follows a correct diagnosis. The rubric's
	// management-step list is not graded yet.
	if metrics.DiagnosisCorrect {
		return 80
	}
	return 50
}

func communicationScore(metrics model.SessionMetrics) int {
	if metrics.QuestionsAsked == 0 {
		return 50
	}

	ratio := float64(metrics.RelevantQuestions) / float64(metrics.QuestionsAsked)
	score := int(ratio * 100)

	if metrics.QuestionsAsked < 5 {
		score -= 20
	} else if metrics.QuestionsAsked > 30 {
		score -= 10
	}

	return clamp(score)
}

func efficiencyScore(rubric model.Rubric, metrics model.SessionMetrics) int {
	timeLimit := rubric.TimeLimitMin
	if timeLimit == 0 {
		timeLimit = defaultTimeLimitMin
	}
	limitSec := float64(timeLimit * 60)
	duration := float64(metrics.DurationSec)

	if metrics.DurationSec == 0 {
		return 70
	}

	optimalMin := limitSec * 0.5
	optimalMax := limitSec * 0.9

	var score int
	switch {
	case duration >= optimalMin && duration <= optimalMax:
		score = 100
	case duration < optimalMin:
		// Too fast, likely under-explored.
		score = 70
	case duration <= limitSec:
		score = 85
	default:
		overPct := (duration - limitSec) / limitSec * 100
		score = 100 - int(overPct)
		if score < 50 {
			score = 50
		}
	}

	if metrics.QuestionsAsked > 0 {
		if metrics.QuestionsAsked < 8 {
			score -= 10
		} else if metrics.QuestionsAsked > 25 {
			score -= 15
		}
	}

	return clamp(score)
}

func historyTakingDetails(rubric model.Rubric, metrics model.SessionMetrics) string {
	covered := 0
	var missed []string
	for _, topic := range rubric.MustAsk {
		if containsString(metrics.TopicsCovered, topic) {
			covered++
		} else {
			missed = append(missed, topic)
		}
	}

	details := fmt.Sprintf("Covered %d/%d essential topics. ", covered, len(rubric.MustAsk))
	if len(missed) > 0 {
		details += fmt.Sprintf("Missed: %s.", strings.Join(missed, ", "))
	}
	return details
}

func clinicalReasoningDetails(metrics model.SessionMetrics) string {
	diagnosis := "Incorrect"
	if metrics.DiagnosisCorrect {
		diagnosis = "Correct"
	}
	return fmt.Sprintf("Diagnosis: %s. Identified %d red flag(s).", diagnosis, len(metrics.RedFlagsCaught))
}

func communicationDetails(metrics model.SessionMetrics) string {
	return fmt.Sprintf("Asked %d questions, %d were relevant.", metrics.QuestionsAsked, metrics.RelevantQuestions)
}

func efficiencyDetails(rubric model.Rubric, metrics model.SessionMetrics) string {
	timeLimit := rubric.TimeLimitMin
	if timeLimit == 0 {
		timeLimit = defaultTimeLimitMin
	}
	return fmt.Sprintf("Completed in %d minutes (target: %d minutes).", metrics.DurationSec/60, timeLimit)
}

func feedbackSummary(history, reasoning, management, communication, efficiency int) string {
	overall := (history + reasoning + management + communication + efficiency) / 5

	var summary string
	switch {
	case overall >= 85:
		summary = "Excellent performance! "
	case overall >= 70:
		summary = "Good work! "
	case overall >= 50:
		summary = "Satisfactory performance. "
	default:
		summary = "Needs improvement. "
	}

	if history < 60 {
		summary += "Focus on taking a more comprehensive history. "
	}
	if reasoning < 60 {
		summary += "Work on identifying key clinical features and red flags. "
	}
	if communication < 60 {
		summary += "Improve your communication and questioning technique. "
	}

	return summary
}

func identifyStrengths(scores map[string]int) []string {
	var strengths []string
	for _, skill := range model.SkillNames {
		if scores[skill] >= 80 {
			strengths = append(strengths, "Strong "+strings.ReplaceAll(skill, "_", " "))
		}
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Completed the scenario")
	}
	return strengths
}

func identifyImprovements(scores map[string]int) []string {
	var areas []string
	for _, skill := range model.SkillNames {
		if scores[skill] < 70 {
			areas = append(areas, "Improve "+strings.ReplaceAll(skill, "_", " "))
		}
	}
	return areas
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
