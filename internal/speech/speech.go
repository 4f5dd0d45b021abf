package speech

import (
	"context"
	"errors"
	"fmt"
)

// DefaultLanguage is the language named in every prompt unless configured.
const DefaultLanguage = "Vietnamese"

var (
	// ErrMissingAPIKey indicates the remote engine was configured without a key
	ErrMissingAPIKey = errors.New("API key is missing")

	// ErrNoAudio indicates a response that carried no inline audio
	ErrNoAudio = errors.New("no audio data received")

	// ErrEmptyText indicates a request with nothing to read
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrUnknownVoice indicates a voice lookup that matched nothing
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrUnknownStyle indicates a style lookup that matched nothing
	ErrUnknownStyle = errors.New("unknown reading style")
)

// Request is one synthesis call.
type Request struct {
	Text  string
	Voice Voice
	Style Style
}

// Synthesizer produces a base64 encoded PCM payload for a request.
// Implementations must be safe for concurrent use.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (string, error)
}

// Engine is a Synthesizer that owns resources.
type Engine interface {
	Synthesizer
	Name() string
	Close() error
}

// ServiceError is returned for every failure of the speech service. Message
// is suitable for showing to the user.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech service: %s: %v", e.Message, e.Err)
	}
	return "speech service: " + e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Prompt builds the instruction sent to the service.
func Prompt(instruction, language, text string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(`%s in %s: "%s"`, instruction, language, text)
}
