package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Amoukli/Coach-AI/internal/config"
	"github.com/Amoukli/Coach-AI/internal/model"
)

// FallbackReply is returned whenever generation fails for any reason.
// The dialogue loop must always produce a patient turn.
const FallbackReply = "I'm not sure I understand. Could you rephrase that?"

// validEmotions is the fixed vocabulary the voice layer understands.
var validEmotions = map[string]bool{
	"neutral":    true,
	"cheerful":   true,
	"sad":        true,
	"angry":      true,
	"fearful":    true,
	"shouting":   true,
	"whispering": true,
	"hopeful":    true,
	"terrified":  true,
	"unfriendly": true,
}

// PatientReply is one generated patient turn.
type PatientReply struct {
	Text    string `json:"text"`
	Emotion string `json:"emotion"`
}

// ResponderService generates in-character patient replies via Azure
// OpenAI. Any failure, from a missing API key to a malformed completion,
// degrades to the fixed fallback reply; Generate never returns an error.
type ResponderService struct {
	config *config.AIConfig
	client *openai.Client
}

// NewResponderService creates a new patient responder
func NewResponderService(cfg *config.AIConfig) *ResponderService {
	s := &ResponderService{config: cfg}
	if cfg.IsEnabled() {
		azureCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		azureCfg.APIVersion = cfg.APIVersion
		azureCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond}
		s.client = openai.NewClientWithConfig(azureCfg)
	}
	return s
}

// Generate produces the patient's reply to a student utterance given the
// scenario context and the last turns of the transcript.
func (s *ResponderService) Generate(ctx context.Context, scenario *model.Scenario, recent []model.TranscriptEntry, studentMessage string) PatientReply {
	if s.client == nil {
		return fallbackReply()
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: s.buildSystemPrompt(scenario)},
	}

	// Last 6 turns for context.
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	for _, entry := range recent {
		role := openai.ChatMessageRoleUser
		if entry.Role == model.RolePatient {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: entry.Message,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: studentMessage,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.config.Deployment,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil || len(resp.Choices) == 0 {
		return fallbackReply()
	}

	return parseReply(resp.Choices[0].Message.Content)
}

func (s *ResponderService) buildSystemPrompt(scenario *model.Scenario) string {
	patient := scenario.Patient

	return fmt.Sprintf(`You are roleplaying as a patient in a medical training scenario.

Patient Details:
- Age: %d
- Gender: %s
- Presenting Complaint: %s
- Emotional State: %s

Instructions:
1. Stay in character as the patient
2. Answer questions naturally based on the scenario
3. Don't volunteer information unless asked
4. Show appropriate emotion based on your state
5. Keep responses concise (1-3 sentences)
6. Use natural language, not medical jargon
7. If you don't know something, say you're not sure

Respond ONLY with JSON: {"text": "what the patient says", "emotion": "one of neutral, cheerful, sad, angry, fearful, shouting, whispering, hopeful, terrified, unfriendly"}

Remember: You are helping train a medical student. Be realistic but supportive of their learning.`,
		patient.Age, patient.Gender, patient.PresentingComplaint, patient.Voice.EmotionalState)
}

// parseReply decodes the completion. Malformed JSON falls back; an
// off-vocabulary emotion is coerced to neutral rather than discarding
// usable text.
func parseReply(content string) PatientReply {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var reply PatientReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil || reply.Text == "" {
		return fallbackReply()
	}

	if !validEmotions[reply.Emotion] {
		reply.Emotion = "neutral"
	}
	return reply
}

func fallbackReply() PatientReply {
	return PatientReply{Text: FallbackReply, Emotion: "neutral"}
}
