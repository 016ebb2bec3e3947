package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Amoukli/Coach-AI/internal/config"
	"github.com/Amoukli/Coach-AI/internal/model"
)

// SpeechService wraps Azure Speech REST endpoints for synthesis and
// recognition. Voice output is an enhancement: callers treat a failed
// synthesis as "no audio", never as a failed turn.
type SpeechService struct {
	config     *config.SpeechConfig
	httpClient *http.Client
}

// NewSpeechService creates a new speech service
func NewSpeechService(cfg *config.SpeechConfig) *SpeechService {
	return &SpeechService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// voiceMap selects an Azure neural voice by (accent, gender).
var voiceMap = map[[2]string]string{
	{"british", "male"}:    "en-GB-RyanNeural",
	{"british", "female"}:  "en-GB-SoniaNeural",
	{"scottish", "male"}:   "en-GB-ThomasNeural",
	{"scottish", "female"}: "en-GB-SoniaNeural",
	{"irish", "male"}:      "en-IE-ConnorNeural",
	{"irish", "female"}:    "en-IE-EmilyNeural",
	{"american", "male"}:   "en-US-GuyNeural",
	{"american", "female"}: "en-US-JennyNeural",
}

const defaultVoice = "en-GB-RyanNeural"

// AvailableVoices lists the selectable Azure voices by accent and gender.
func AvailableVoices() map[string]map[string][]string {
	return map[string]map[string][]string{
		"british": {
			"male":   {"en-GB-RyanNeural", "en-GB-ThomasNeural"},
			"female": {"en-GB-SoniaNeural", "en-GB-LibbyNeural"},
		},
		"scottish": {
			"male":   {"en-GB-ThomasNeural"},
			"female": {"en-GB-SoniaNeural"},
		},
		"irish": {
			"male":   {"en-IE-ConnorNeural"},
			"female": {"en-IE-EmilyNeural"},
		},
		"american": {
			"male":   {"en-US-GuyNeural", "en-US-JasonNeural"},
			"female": {"en-US-JennyNeural", "en-US-AriaNeural"},
		},
	}
}

// styleMap translates patient emotions onto Azure express-as styles.
var styleMap = map[string]string{
	"neutral":    "general",
	"anxious":    "worried",
	"calm":       "calm",
	"distressed": "sad",
}

// VoiceForProfile returns the Azure voice for a patient voice profile.
func VoiceForProfile(profile model.VoiceProfile) string {
	accent := strings.ToLower(profile.Accent)
	if accent == "" {
		accent = "british"
	}
	gender := strings.ToLower(profile.Gender)
	if gender == "" {
		gender = "male"
	}

	if profile.VoiceID != "" {
		return profile.VoiceID
	}
	if voice, ok := voiceMap[[2]string{accent, gender}]; ok {
		return voice
	}
	return defaultVoice
}

// Synthesize converts text to MP3 audio using the given voice and
// emotional style.
func (s *SpeechService) Synthesize(ctx context.Context, text, voiceName, emotion string) ([]byte, error) {
	if !s.config.IsEnabled() {
		return nil, fmt.Errorf("%w: speech synthesis not configured", ErrUpstreamFailed)
	}
	if voiceName == "" {
		voiceName = defaultVoice
	}

	ssml := buildSSML(text, voiceName, emotion)
	endpoint := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", s.config.Region)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(ssml))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.config.APIKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", "audio-16khz-128kbitrate-mono-mp3")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: synthesis status %d", ErrUpstreamFailed, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Recognize transcribes WAV audio to text.
func (s *SpeechService) Recognize(ctx context.Context, audio []byte) (string, error) {
	if !s.config.IsEnabled() {
		return "", fmt.Errorf("%w: speech recognition not configured", ErrUpstreamFailed)
	}

	endpoint := fmt.Sprintf(
		"https://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1?language=en-GB",
		s.config.Region)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.config.APIKey)
	req.Header.Set("Content-Type", "audio/wav; codecs=audio/pcm; samplerate=16000")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: recognition status %d", ErrUpstreamFailed, resp.StatusCode)
	}

	var result struct {
		RecognitionStatus string `json:"RecognitionStatus"`
		DisplayText       string `json:"DisplayText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	if result.RecognitionStatus != "Success" {
		return "", fmt.Errorf("%w: recognition status %s", ErrUpstreamFailed, result.RecognitionStatus)
	}

	return result.DisplayText, nil
}

func buildSSML(text, voiceName, emotion string) string {
	style, ok := styleMap[emotion]
	if !ok {
		// Azure styles share names with the emotion vocabulary.
		style = emotion
	}
	if style == "" {
		style = "general"
	}

	return fmt.Sprintf(`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xmlns:mstts="https://www.w3.org/2001/mstts" xml:lang="en-GB"><voice name="%s"><mstts:express-as style="%s">%s</mstts:express-as></voice></speak>`,
		voiceName, style, escapeXML(text))
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
