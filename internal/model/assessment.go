package model

import "time"

// Skill names used across assessments, skill progress and analytics.
const (
	SkillHistoryTaking     = "history_taking"
	SkillClinicalReasoning = "clinical_reasoning"
	SkillManagement        = "management"
	SkillCommunication     = "communication"
	SkillEfficiency        = "efficiency"
)

// SkillNames lists the five graded skills in display order.
var SkillNames = []string{
	SkillHistoryTaking,
	SkillClinicalReasoning,
	SkillManagement,
	SkillCommunication,
	SkillEfficiency,
}

// SessionMetrics are the raw counts a completed session feeds into scoring.
// Persisted with the assessment so a score can always be traced back.
type SessionMetrics struct {
	TopicsCovered       []string `json:"topicsCovered" bson:"topicsCovered"`
	RedFlagsCaught      []string `json:"redFlagsCaught" bson:"redFlagsCaught"`
	QuestionsAsked      int      `json:"questionsAsked" bson:"questionsAsked"`
	RelevantQuestions   int      `json:"relevantQuestions" bson:"relevantQuestions"`
	RelevancePercentage int      `json:"relevancePercentage" bson:"relevancePercentage"`
	DurationSec         int      `json:"durationSec" bson:"durationSec"`
	DiagnosisCorrect    bool     `json:"diagnosisCorrect" bson:"diagnosisCorrect"`
}

type SkillScore struct {
	Score   int    `json:"score" bson:"score"`
	Details string `json:"details" bson:"details"`
}

// Assessment is the immutable scoring record for a completed session.
// At most one exists per session.
type Assessment struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	AssessmentID string `json:"assessmentId" bson:"assessmentId"`
	UserID       string `json:"userId" bson:"userId"`
	SessionID    string `json:"sessionId" bson:"sessionId"`

	OverallScore           int `json:"overallScore" bson:"overallScore"`
	HistoryTakingScore     int `json:"historyTakingScore" bson:"historyTakingScore"`
	ClinicalReasoningScore int `json:"clinicalReasoningScore" bson:"clinicalReasoningScore"`
	ManagementScore        int `json:"managementScore" bson:"managementScore"`
	CommunicationScore     int `json:"communicationScore" bson:"communicationScore"`
	EfficiencyScore        int `json:"efficiencyScore" bson:"efficiencyScore"`

	Metrics             SessionMetrics        `json:"metrics" bson:"metrics"`
	SkillsBreakdown     map[string]SkillScore `json:"skillsBreakdown" bson:"skillsBreakdown"`
	FeedbackSummary     string                `json:"feedbackSummary" bson:"feedbackSummary"`
	Strengths           []string              `json:"strengths" bson:"strengths"`
	AreasForImprovement []string              `json:"areasForImprovement" bson:"areasForImprovement"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Trend string

const (
	TrendNew       Trend = "new"
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// SkillProgress is the longitudinal record for one (user, skill) pair.
// AverageScore is a running integer mean updated incrementally, never
// recomputed from history.
type SkillProgress struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	UserID        string    `json:"userId" bson:"userId"`
	SkillName     string    `json:"skillName" bson:"skillName"`
	CurrentLevel  int       `json:"currentLevel" bson:"currentLevel"`
	PreviousLevel int       `json:"previousLevel" bson:"previousLevel"`
	Trend         Trend     `json:"trend" bson:"trend"`
	SessionsCount int       `json:"sessionsCount" bson:"sessionsCount"`
	LastScore     int       `json:"lastScore" bson:"lastScore"`
	AverageScore  int       `json:"averageScore" bson:"averageScore"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}
