package config

import "os"

// AIConfig holds the Azure OpenAI configuration used for patient
// response generation.
type AIConfig struct {
	APIKey     string `json:"-"` // Never serialize
	Endpoint   string `json:"endpoint"`
	Deployment string `json:"deployment"`
	APIVersion string `json:"apiVersion"`
	TimeoutMS  int    `json:"timeoutMs"`
}

func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:     os.Getenv("AZURE_OPENAI_KEY"),
		Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4"),
		APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
		TimeoutMS:  30000,
	}
}

// IsEnabled reports whether the generation API is configured. When it is
// not, callers fall back to canned replies instead of failing.
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != "" && c.Endpoint != ""
}

// SpeechConfig holds the Azure Speech configuration for synthesis and
// recognition.
type SpeechConfig struct {
	APIKey    string `json:"-"`
	Region    string `json:"region"`
	TimeoutMS int    `json:"timeoutMs"`
}

func DefaultSpeechConfig() *SpeechConfig {
	return &SpeechConfig{
		APIKey:    os.Getenv("AZURE_SPEECH_KEY"),
		Region:    getEnv("AZURE_SPEECH_REGION", "uksouth"),
		TimeoutMS: 30000,
	}
}

func (c *SpeechConfig) IsEnabled() bool {
	return c.APIKey != ""
}
