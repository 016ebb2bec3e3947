package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Amoukli/Coach-AI/internal/service"
)

// Cap uploaded audio at 10 MB.
const maxAudioBytes = 10 << 20

// VoiceHandler handles speech synthesis and transcription endpoints
type VoiceHandler struct {
	speechSvc *service.SpeechService
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(speechSvc *service.SpeechService) *VoiceHandler {
	return &VoiceHandler{speechSvc: speechSvc}
}

// SynthesizeRequest is the request body for speech synthesis
type SynthesizeRequest struct {
	Text    string `json:"text"`
	Voice   string `json:"voice,omitempty"`
	Emotion string `json:"emotion,omitempty"`
}

// Synthesize handles POST /v1/voice/synthesize
func (h *VoiceHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := h.speechSvc.Synthesize(r.Context(), req.Text, req.Voice, req.Emotion)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

// Voices handles GET /v1/voice/voices
func (h *VoiceHandler) Voices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.AvailableVoices())
}

// Transcribe handles POST /v1/voice/transcribe with a WAV body
func (h *VoiceHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	audio, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes))
	if err != nil || len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "audio body is required")
		return
	}

	text, err := h.speechSvc.Recognize(r.Context(), audio)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
