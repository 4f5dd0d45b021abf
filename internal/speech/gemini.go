package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini text-to-speech model.
const DefaultModel = "gemini-2.5-flash-preview-tts"

// GeminiConfig holds configuration for the Gemini engine.
type GeminiConfig struct {
	APIKey string

	// Model defaults to DefaultModel
	Model string

	// Language named in the prompt, defaults to DefaultLanguage
	Language string

	// Rate limit requests per minute (defaults to 10)
	RequestsPerMinute int

	// Timeout bounds a single request (defaults to 2 minutes)
	Timeout time.Duration

	// Metrics is optional
	Metrics *Metrics
}

// generator is the slice of the genai client the engine uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiEngine synthesizes speech with the Gemini API.
type GeminiEngine struct {
	models   generator
	model    string
	language string
	timeout  time.Duration
	limiter  *rate.Limiter
	metrics  *Metrics
}

// NewGeminiEngine creates an engine backed by a genai client.
func NewGeminiEngine(ctx context.Context, config GeminiConfig) (*GeminiEngine, error) {
	if config.APIKey == "" {
		return nil, &ServiceError{
			Message: "API Key is missing. Please check your environment configuration.",
			Err:     ErrMissingAPIKey,
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ServiceError{Message: "failed to create Gemini client", Err: err}
	}

	return newGeminiEngine(client.Models, config), nil
}

func newGeminiEngine(models generator, config GeminiConfig) *GeminiEngine {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 10
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}

	return &GeminiEngine{
		models:   models,
		model:    config.Model,
		language: config.Language,
		timeout:  config.Timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
		metrics:  config.Metrics,
	}
}

// Name implements Engine.
func (e *GeminiEngine) Name() string { return "gemini" }

// Model returns the model requests are sent to.
func (e *GeminiEngine) Model() string { return e.model }

// Close implements Engine. The genai client holds no resources to release.
func (e *GeminiEngine) Close() error { return nil }

// Synthesize sends one request and returns the audio as base64 PCM.
func (e *GeminiEngine) Synthesize(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyText
	}

	sample := e.metrics.Start(e.Name(), req.Text)
	payload, err := e.synthesize(ctx, req)
	e.metrics.Finish(sample, len(payload), false, err)
	return payload, err
}

func (e *GeminiEngine) synthesize(ctx context.Context, req Request) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", &ServiceError{Message: "rate limit wait cancelled", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := Prompt(req.Style.Instruction, e.language, req.Text)
	log.Debug("Requesting speech",
		"model", e.model,
		"voice", req.Voice.GeminiVoice,
		"style", req.Style.ID,
		"promptLength", len(prompt))

	resp, err := e.models.GenerateContent(ctx, e.model, genai.Text(prompt), e.requestConfig(req.Voice))
	if err != nil {
		return "", serviceError(err)
	}

	data, err := inlineAudio(resp)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (e *GeminiEngine) requestConfig(voice Voice) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: voice.GeminiVoice,
				},
			},
		},
	}
}

// inlineAudio extracts the first part's inline data from the first candidate.
func inlineAudio(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, &ServiceError{Message: "No audio data received from Gemini API.", Err: ErrNoAudio}
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return nil, &ServiceError{Message: "No audio data received from Gemini API.", Err: ErrNoAudio}
	}
	blob := content.Parts[0].InlineData
	if blob == nil || len(blob.Data) == 0 {
		return nil, &ServiceError{Message: "No audio data received from Gemini API.", Err: ErrNoAudio}
	}
	log.Debug("Received audio", "mimeType", blob.MIMEType, "bytes", len(blob.Data))
	return blob.Data, nil
}

// serviceError turns a genai client error into a ServiceError with a
// readable message.
func serviceError(err error) error {
	var apiErr genai.APIError
	switch {
	case errors.As(err, &apiErr):
		return &ServiceError{
			Message: fmt.Sprintf("Gemini API error %d (%s): %s", apiErr.Code, apiErr.Status, apiErr.Message),
			Err:     err,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &ServiceError{Message: "request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &ServiceError{Message: "request cancelled", Err: err}
	default:
		return &ServiceError{Message: "speech generation failed", Err: err}
	}
}
