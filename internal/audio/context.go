package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrContextClosed indicates use of a context after Close
	ErrContextClosed = errors.New("audio context closed")

	// ErrUnavailable indicates the host audio device could not be used
	ErrUnavailable = errors.New("audio device unavailable")
)

// Context creates players for one output format: mono float32 samples at
// SampleRate.
type Context interface {
	NewPlayer(r io.Reader) (Player, error)
	SampleRate() int
	Close() error
}

// Player plays the float32 little-endian stream it was created with.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

// Kind selects the Context implementation.
type Kind int

const (
	// KindAuto uses the device when one is present, otherwise the mock
	KindAuto Kind = iota
	// KindProduction uses the host audio device via oto
	KindProduction
	// KindMock discards audio in simulated real time
	KindMock
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindProduction:
		return "production"
	case KindMock:
		return "mock"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a config value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "auto":
		return KindAuto, nil
	case "production", "device":
		return KindProduction, nil
	case "mock", "none":
		return KindMock, nil
	default:
		return KindAuto, fmt.Errorf("unknown audio kind %q", s)
	}
}

// Options configure NewContext.
type Options struct {
	Kind       Kind
	SampleRate int           // defaults to 24000
	BufferSize time.Duration // device buffer; 0 picks a platform default
}

// NewContext acquires an audio context. The caller owns it and must Close
// it.
func NewContext(opts Options) (Context, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 24000
	}

	switch opts.Kind {
	case KindProduction:
		log.Debug("Creating production audio context", "sampleRate", opts.SampleRate)
		return newDeviceContext(opts)

	case KindMock:
		log.Debug("Creating mock audio context", "sampleRate", opts.SampleRate)
		return NewMockContext(opts.SampleRate), nil

	case KindAuto:
		platform := DetectPlatform()
		if reason := platform.MockReason(); reason != "" {
			log.Info("Using mock audio context", "reason", reason)
			return NewMockContext(opts.SampleRate), nil
		}
		if opts.BufferSize == 0 {
			opts.BufferSize = platform.BufferSize()
		}
		ctx, err := newDeviceContext(opts)
		if err != nil {
			log.Warn("Failed to create production audio context, falling back to mock",
				"error", err,
				"platform", platform.OS)
			return NewMockContext(opts.SampleRate), nil
		}
		return ctx, nil

	default:
		return nil, fmt.Errorf("unknown audio context kind: %v", opts.Kind)
	}
}
