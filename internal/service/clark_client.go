package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Amoukli/Coach-AI/internal/model"
)

// ClarkClient wraps the Clark anonymized-consultation API, the source
// feed for importing real consultations as draft scenarios.
type ClarkClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClarkClient creates a new Clark API client
func NewClarkClient(baseURL, apiKey string) *ClarkClient {
	return &ClarkClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Consultation is one anonymized consultation record from Clark.
type Consultation struct {
	ID         string              `json:"id"`
	Specialty  string              `json:"specialty"`
	Diagnosis  string              `json:"diagnosis"`
	Patient    ConsultationPatient `json:"patient"`
	Transcript []ConsultationTurn  `json:"transcript"`
}

type ConsultationPatient struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type ConsultationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FetchConsultations lists anonymized consultations, optionally by
// specialty.
func (c *ClarkClient) FetchConsultations(ctx context.Context, specialty string, limit int) ([]Consultation, error) {
	endpoint := fmt.Sprintf("%s/consultations/anonymized?limit=%d", c.baseURL, limit)
	if specialty != "" {
		endpoint += "&specialty=" + url.QueryEscape(specialty)
	}

	var result struct {
		Consultations []Consultation `json:"consultations"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("%w: clark consultations: %v", ErrUpstreamFailed, err)
	}
	return result.Consultations, nil
}

// GetConsultation retrieves one consultation by ID.
func (c *ClarkClient) GetConsultation(ctx context.Context, consultationID string) (*Consultation, error) {
	endpoint := fmt.Sprintf("%s/consultations/%s", c.baseURL, url.PathEscape(consultationID))

	var consultation Consultation
	if err := c.getJSON(ctx, endpoint, &consultation); err != nil {
		return nil, fmt.Errorf("%w: clark consultation %s: %v", ErrUpstreamFailed, consultationID, err)
	}
	return &consultation, nil
}

// ConvertToScenario maps a Clark consultation onto a draft scenario
// skeleton an editor can refine before publication.
func (c *ClarkClient) ConvertToScenario(consultation *Consultation) *model.Scenario {
	specialty := consultation.Specialty
	if specialty == "" {
		specialty = "General"
	}

	return &model.Scenario{
		Title:       consultation.Diagnosis + " case",
		Description: "Clinical scenario based on real consultation",
		Specialty:   specialty,
		Difficulty:  model.DifficultyIntermediate,
		Status:      model.ScenarioDraft,
		Patient: model.PatientProfile{
			Name:                "Anonymous Patient",
			Age:                 patientAge(consultation),
			Gender:              consultation.Patient.Gender,
			PresentingComplaint: presentingComplaint(consultation.Transcript),
			Voice: model.VoiceProfile{
				Accent:         "British",
				Gender:         consultation.Patient.Gender,
				EmotionalState: "neutral",
			},
		},
		DialogueTree: map[string]model.DialogueNode{
			"root": {
				ID:          "root",
				PatientSays: "Hello doctor, I need to see you about something.",
				ExpectedTopics: []string{
					"presenting_complaint",
					"pain_quality",
					"duration",
					"associated_symptoms",
				},
			},
		},
		LearningObjectives: []string{
			"Take comprehensive patient history",
			"Identify key clinical features",
			"Make appropriate diagnosis",
			"Suggest management plan",
		},
		CorrectDiagnosis: consultation.Diagnosis,
		Rubric: model.Rubric{
			MustAsk: []string{
				"presenting_complaint",
				"pain_quality",
				"duration",
				"past_medical_history",
				"medications",
			},
			ManagementSteps: []string{"examination", "investigations", "treatment"},
			TimeLimitMin:    15,
		},
		SourceConsultationID: consultation.ID,
	}
}

func patientAge(consultation *Consultation) int {
	if consultation.Patient.Age > 0 {
		return consultation.Patient.Age
	}
	return 50
}

// presentingComplaint lifts the first patient line from the transcript,
// truncated to 100 characters.
func presentingComplaint(transcript []ConsultationTurn) string {
	for _, turn := range transcript {
		if turn.Role == "patient" {
			if len(turn.Content) > 100 {
				return turn.Content[:100]
			}
			return turn.Content
		}
	}
	return "No presenting complaint found"
}

func (c *ClarkClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
