package model

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type ScenarioStatus string

const (
	ScenarioDraft         ScenarioStatus = "draft"
	ScenarioPendingReview ScenarioStatus = "pending_review"
	ScenarioApproved      ScenarioStatus = "approved"
	ScenarioPublished     ScenarioStatus = "published"
	ScenarioArchived      ScenarioStatus = "archived"
)

// VoiceProfile selects the synthesized patient voice.
type VoiceProfile struct {
	Accent         string `json:"accent" bson:"accent"`
	Gender         string `json:"gender" bson:"gender"`
	EmotionalState string `json:"emotionalState" bson:"emotionalState"`
	VoiceID        string `json:"voiceId,omitempty" bson:"voiceId,omitempty"`
}

type PatientProfile struct {
	Name                string       `json:"name" bson:"name"`
	Age                 int          `json:"age" bson:"age"`
	Gender              string       `json:"gender" bson:"gender"`
	PresentingComplaint string       `json:"presentingComplaint" bson:"presentingComplaint"`
	Voice               VoiceProfile `json:"voiceProfile" bson:"voiceProfile"`
}

// DialogueNode is one branch of the scenario's dialogue tree. The root node
// carries the opening complaint; branches hold the canned clinical facts the
// patient can reveal and the topics a student is expected to probe at that
// point.
type DialogueNode struct {
	ID             string   `json:"id" bson:"id"`
	PatientSays    string   `json:"patientSays" bson:"patientSays"`
	ClinicalFacts  []string `json:"clinicalFacts,omitempty" bson:"clinicalFacts,omitempty"`
	ExpectedTopics []string `json:"expectedTopics" bson:"expectedTopics"`
	Branches       []string `json:"branches,omitempty" bson:"branches,omitempty"`
}

// Rubric is the scenario's grading criteria.
type Rubric struct {
	MustAsk         []string `json:"mustAsk" bson:"mustAsk"`
	RedFlags        []string `json:"redFlags" bson:"redFlags"`
	ManagementSteps []string `json:"managementSteps" bson:"managementSteps"`
	TimeLimitMin    int      `json:"timeLimitMin" bson:"timeLimitMin"`
}

type Scenario struct {
	ID                    string                  `json:"id" bson:"_id,omitempty"`
	ScenarioID            string                  `json:"scenarioId" bson:"scenarioId"`
	Title                 string                  `json:"title" bson:"title"`
	Description           string                  `json:"description,omitempty" bson:"description,omitempty"`
	Specialty             string                  `json:"specialty" bson:"specialty"`
	Difficulty            Difficulty              `json:"difficulty" bson:"difficulty"`
	Status                ScenarioStatus          `json:"status" bson:"status"`
	Patient               PatientProfile          `json:"patientProfile" bson:"patientProfile"`
	DialogueTree          map[string]DialogueNode `json:"dialogueTree" bson:"dialogueTree"`
	LearningObjectives    []string                `json:"learningObjectives,omitempty" bson:"learningObjectives,omitempty"`
	CorrectDiagnosis      string                  `json:"correctDiagnosis" bson:"correctDiagnosis"`
	DifferentialDiagnoses []string                `json:"differentialDiagnoses,omitempty" bson:"differentialDiagnoses,omitempty"`
	Rubric                Rubric                  `json:"assessmentRubric" bson:"assessmentRubric"`
	GuidelineIDs          []string                `json:"guidelineIds,omitempty" bson:"guidelineIds,omitempty"`
	GuidelineURLs         []string                `json:"guidelineUrls,omitempty" bson:"guidelineUrls,omitempty"`
	SourceConsultationID  string                  `json:"sourceConsultationId,omitempty" bson:"sourceConsultationId,omitempty"`
	CreatedBy             string                  `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	ReviewedBy            string                  `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	CreatedAt             time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time               `json:"updatedAt" bson:"updatedAt"`
	PublishedAt           *time.Time              `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`

	// Usage counters, the only fields mutable after publication.
	TimesPlayed          int `json:"timesPlayed" bson:"timesPlayed"`
	AverageScore         int `json:"averageScore,omitempty" bson:"averageScore,omitempty"`
	AverageCompletionMin int `json:"averageCompletionMin,omitempty" bson:"averageCompletionMin,omitempty"`
}

// RootNode returns the dialogue tree's entry node.
func (s *Scenario) RootNode() (DialogueNode, bool) {
	n, ok := s.DialogueTree["root"]
	return n, ok
}

// Editable reports whether scenario content may still be modified.
// Published scenarios are frozen except for usage counters.
func (s *Scenario) Editable() bool {
	return s.Status != ScenarioPublished && s.Status != ScenarioArchived
}

// ScenarioMeta is the Redis-cached subset used on the dialogue hot path.
type ScenarioMeta struct {
	ScenarioID       string         `json:"scenarioId"`
	Title            string         `json:"title"`
	Specialty        string         `json:"specialty"`
	Status           ScenarioStatus `json:"status"`
	CorrectDiagnosis string         `json:"correctDiagnosis"`
	TimeLimitMin     int            `json:"timeLimitMin"`
}
