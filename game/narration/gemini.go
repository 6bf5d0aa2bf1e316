package narration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// Gemini model IDs
const (
	ModelText   = "gemini-2.5-flash"
	ModelSpeech = "gemini-2.5-flash-preview-tts"
	ModelImage  = "gemini-2.5-flash-image"

	DefaultVoiceName = "Kore"
)

var ErrNoAudio = errors.New("response contained no audio")
var ErrNoImage = errors.New("response contained no image")

// GeminiConfig holds the Gemini connection settings
type GeminiConfig struct {
	APIKey    string
	VoiceName string
}

// GeminiVoice implements Voice and service.Explainer using the Gemini API
type GeminiVoice struct {
	client    *genai.Client
	voiceName string
}

// NewGeminiVoice creates a Gemini-backed voice
func NewGeminiVoice(ctx context.Context, cfg GeminiConfig) (*GeminiVoice, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	voice := cfg.VoiceName
	if voice == "" {
		voice = DefaultVoiceName
	}

	return &GeminiVoice{client: client, voiceName: voice}, nil
}

// Explain asks for a short, playful explanation of topic. It never fails:
// errors are logged and a fallback sentence is returned.
func (g *GeminiVoice) Explain(ctx context.Context, topic string) string {
	prompt := fmt.Sprintf(explainPromptFmt, topic)

	result, err := g.client.Models.GenerateContent(ctx, ModelText, genai.Text(prompt), nil)
	if err != nil {
		log.Printf("[NARRATION] explanation of %q failed: %v", topic, err)
		return explainFallback
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return explainEmpty
	}
	return text
}

// Speak synthesizes text as 24kHz mono PCM
func (g *GeminiVoice) Speak(ctx context.Context, text string) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voiceName},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, ModelSpeech, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("speech generation: %w", err)
	}

	if blob := firstInlineData(result); blob != nil && len(blob.Data) > 0 {
		return blob.Data, nil
	}
	return nil, ErrNoAudio
}

// Sticker draws a reward sticker and returns the image bytes and MIME type
func (g *GeminiVoice) Sticker(ctx context.Context, subject string) ([]byte, string, error) {
	prompt := fmt.Sprintf(stickerStyle, subject)
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	result, err := g.client.Models.GenerateContent(ctx, ModelImage, genai.Text(prompt), config)
	if err != nil {
		return nil, "", fmt.Errorf("sticker generation: %w", err)
	}

	if blob := firstInlineData(result); blob != nil && len(blob.Data) > 0 {
		mime := blob.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return blob.Data, mime, nil
	}
	return nil, "", ErrNoImage
}

func firstInlineData(result *genai.GenerateContentResponse) *genai.Blob {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil {
			return part.InlineData
		}
	}
	return nil
}
