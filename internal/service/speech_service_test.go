package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Amoukli/Coach-AI/internal/config"
	"github.com/Amoukli/Coach-AI/internal/model"
)

func TestVoiceForProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile model.VoiceProfile
		want    string
	}{
		{"british male", model.VoiceProfile{Accent: "british", Gender: "male"}, "en-GB-RyanNeural"},
		{"case insensitive", model.VoiceProfile{Accent: "British", Gender: "Female"}, "en-GB-SoniaNeural"},
		{"irish female", model.VoiceProfile{Accent: "irish", Gender: "female"}, "en-IE-EmilyNeural"},
		{"empty profile defaults", model.VoiceProfile{}, "en-GB-RyanNeural"},
		{"unknown accent defaults", model.VoiceProfile{Accent: "martian", Gender: "male"}, "en-GB-RyanNeural"},
		{"explicit voice id wins", model.VoiceProfile{Accent: "british", Gender: "male", VoiceID: "en-US-DavisNeural"}, "en-US-DavisNeural"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VoiceForProfile(tt.profile))
		})
	}
}

func TestAvailableVoices_CoversVoiceMap(t *testing.T) {
	voices := AvailableVoices()

	// Every mapped (accent, gender) pair appears in the catalogue with
	// its selected voice listed first.
	for key, want := range voiceMap {
		accent, gender := key[0], key[1]
		assert.Contains(t, voices, accent)
		assert.Contains(t, voices[accent], gender)
		assert.Equal(t, want, voices[accent][gender][0], "%s/%s", accent, gender)
	}
}

func TestBuildSSML(t *testing.T) {
	ssml := buildSSML("It hurts & I can't breathe", "en-GB-RyanNeural", "anxious")

	assert.Contains(t, ssml, `<voice name="en-GB-RyanNeural">`)
	assert.Contains(t, ssml, `<mstts:express-as style="worried">`)
	assert.Contains(t, ssml, "It hurts &amp; I can&apos;t breathe")
	assert.NotContains(t, ssml, "It hurts & I")
}

func TestBuildSSML_StyleFallbacks(t *testing.T) {
	// Emotions from the reply vocabulary pass straight through as styles.
	assert.Contains(t, buildSSML("hello", "en-GB-RyanNeural", "sad"), `style="sad"`)
	// Neutral maps onto the general style; empty means general too.
	assert.Contains(t, buildSSML("hello", "en-GB-RyanNeural", "neutral"), `style="general"`)
	assert.Contains(t, buildSSML("hello", "en-GB-RyanNeural", ""), `style="general"`)
}

func TestSpeech_Unconfigured(t *testing.T) {
	svc := NewSpeechService(&config.SpeechConfig{Region: "uksouth"})

	_, err := svc.Synthesize(context.Background(), "hello", "", "neutral")
	assert.ErrorIs(t, err, ErrUpstreamFailed)

	_, err = svc.Recognize(context.Background(), []byte{0x52, 0x49, 0x46, 0x46})
	assert.ErrorIs(t, err, ErrUpstreamFailed)
}

func TestConvertToScenario(t *testing.T) {
	client := NewClarkClient("http://clark.local", "key")

	consultation := &Consultation{
		ID:        "c_123",
		Specialty: "cardiology",
		Diagnosis: "Stable angina",
		Patient:   ConsultationPatient{Age: 0, Gender: "female"},
		Transcript: []ConsultationTurn{
			{Role: "clinician", Content: "What brings you in today?"},
			{Role: "patient", Content: "I've been getting chest tightness when I walk up the hill to work every morning and it eases off after a few minutes of rest."},
		},
	}

	scenario := client.ConvertToScenario(consultation)

	assert.Equal(t, "Stable angina case", scenario.Title)
	assert.Equal(t, "cardiology", scenario.Specialty)
	assert.Equal(t, model.ScenarioDraft, scenario.Status)
	assert.Equal(t, "Stable angina", scenario.CorrectDiagnosis)
	assert.Equal(t, "c_123", scenario.SourceConsultationID)

	// Unknown age falls back rather than producing an implausible zero.
	assert.Equal(t, 50, scenario.Patient.Age)
	assert.Equal(t, "female", scenario.Patient.Gender)

	// First patient line becomes the complaint, capped at 100 characters.
	assert.Len(t, scenario.Patient.PresentingComplaint, 100)
	assert.Equal(t, "I've been getting chest tightness", scenario.Patient.PresentingComplaint[:33])

	root, ok := scenario.RootNode()
	assert.True(t, ok)
	assert.NotEmpty(t, root.PatientSays)
	assert.NotEmpty(t, scenario.Rubric.MustAsk)
	assert.Equal(t, 15, scenario.Rubric.TimeLimitMin)
}

func TestConvertToScenario_EmptyTranscript(t *testing.T) {
	client := NewClarkClient("http://clark.local", "key")

	scenario := client.ConvertToScenario(&Consultation{ID: "c_1", Diagnosis: "Flu"})

	assert.Equal(t, "General", scenario.Specialty)
	assert.Equal(t, "No presenting complaint found", scenario.Patient.PresentingComplaint)
}
