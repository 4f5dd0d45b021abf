package speech

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"
	"sync/atomic"
	"time"
)

// MockEngine produces a deterministic sine tone instead of speech. The
// payload has SamplesPerRune samples for every rune of text, so its length
// tracks the input the way real speech roughly does.
type MockEngine struct {
	SampleRate     int           // defaults to 24000
	SamplesPerRune int           // defaults to 1200 (50ms at 24kHz)
	Delay          time.Duration // simulated latency
	Err            error         // returned by every call when set

	calls atomic.Int64
}

// NewMockEngine returns a mock engine with default settings.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

// Name implements Engine.
func (m *MockEngine) Name() string { return "mock" }

// Close implements Engine.
func (m *MockEngine) Close() error { return nil }

// Calls reports how many requests reached the engine.
func (m *MockEngine) Calls() int { return int(m.calls.Load()) }

// Synthesize implements Synthesizer.
func (m *MockEngine) Synthesize(ctx context.Context, req Request) (string, error) {
	m.calls.Add(1)

	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyText
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", &ServiceError{Message: "request cancelled", Err: ctx.Err()}
		}
	}
	if m.Err != nil {
		return "", &ServiceError{Message: "speech generation failed", Err: m.Err}
	}

	rate := m.SampleRate
	if rate <= 0 {
		rate = 24000
	}
	perRune := m.SamplesPerRune
	if perRune <= 0 {
		perRune = 1200
	}

	n := len([]rune(req.Text)) * perRune
	freq := toneFrequency(req.Voice)
	pcm := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		v := 0.3 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(v*32767)))
	}
	return base64.StdEncoding.EncodeToString(pcm), nil
}

// toneFrequency gives each Gemini voice its own pitch.
func toneFrequency(v Voice) float64 {
	var h uint32
	for _, r := range v.GeminiVoice {
		h = h*31 + uint32(r)
	}
	return 180 + float64(h%8)*30
}
