package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/mwg-labs/voicestudio/pkg/codec"
)

const (
	MinSpeed = 0.5
	MaxSpeed = 2.0
)

var (
	// ErrRateMismatch indicates a buffer whose rate differs from the context's
	ErrRateMismatch = errors.New("buffer sample rate does not match audio context")

	// ErrInvalidSpeed indicates a playback rate outside [MinSpeed, MaxSpeed]
	ErrInvalidSpeed = errors.New("speed must be between 0.5 and 2.0")
)

// pollInterval is how often a running session checks its player.
const pollInterval = 10 * time.Millisecond

// Playback plays one buffer at a time through a Context. Starting a new
// buffer stops the previous one.
type Playback struct {
	ctx Context

	// playMu serializes Play so stopping the old session and installing
	// the new one happen together.
	playMu sync.Mutex

	mu      sync.Mutex
	current *session
}

type session struct {
	player Player
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func (s *session) cancel() { s.once.Do(func() { close(s.stop) }) }

// NewPlayback binds a Playback to c.
func NewPlayback(c Context) *Playback {
	return &Playback{ctx: c}
}

// Play starts playing buf at the given speed and returns immediately.
// Speeds other than 1 change tempo and pitch together. Playback ends when
// the buffer is exhausted, Stop is called, or ctx is done.
func (p *Playback) Play(ctx context.Context, buf *codec.Buffer, speed float64) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	if buf == nil {
		return errors.New("nothing to play")
	}
	if buf.SampleRate != p.ctx.SampleRate() {
		return fmt.Errorf("%w: buffer %d Hz, context %d Hz", ErrRateMismatch, buf.SampleRate, p.ctx.SampleRate())
	}

	samples := buf.Samples
	if speed != 1 {
		var err error
		samples, err = Retime(samples, buf.SampleRate, speed)
		if err != nil {
			return err
		}
	}

	p.playMu.Lock()
	defer p.playMu.Unlock()

	p.Stop()

	player, err := p.ctx.NewPlayer(newSampleReader(samples))
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	s := &session{
		player: player,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()

	log.Debug("Playback started",
		"frames", len(samples),
		"speed", speed,
		"duration", time.Duration(float64(buf.Duration())/speed))

	player.Play()
	go s.monitor(ctx)
	return nil
}

func (s *session) monitor(ctx context.Context) {
	defer close(s.done)
	defer func() {
		if err := s.player.Close(); err != nil {
			log.Debug("Failed to close player", "error", err)
		}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			s.player.Pause()
			return
		case <-ctx.Done():
			s.player.Pause()
			return
		case <-ticker.C:
			if !s.player.IsPlaying() {
				return
			}
		}
	}
}

// Stop ends the current playback, if any, and waits for it to release its
// player.
func (p *Playback) Stop() {
	p.mu.Lock()
	s := p.current
	p.current = nil
	p.mu.Unlock()

	if s != nil {
		s.cancel()
		<-s.done
	}
}

// Wait blocks until the current playback ends or ctx is done.
func (p *Playback) Wait(ctx context.Context) error {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()

	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsPlaying reports whether a buffer is still being played.
func (p *Playback) IsPlaying() bool {
	p.mu.Lock()
	s := p.current
	p.mu.Unlock()

	if s == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Retime resamples samples so that playing them at sampleRate sounds like
// playing the original at speed times its rate. The result always holds
// round(len(samples)/speed) samples.
func Retime(samples []float32, sampleRate int, speed float64) ([]float32, error) {
	if len(samples) == 0 {
		return nil, nil
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s)
	}
	// ResampleMono flushes the filter's delay line, which holds the end of
	// the buffer.
	res, err := resampling.ResampleMono(in, float64(sampleRate)*speed, float64(sampleRate), resampling.QualityHigh)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	out := make([]float32, len(res))
	for i, s := range res {
		out[i] = float32(math.Max(-1, math.Min(1, s)))
	}

	want := int(math.Round(float64(len(samples)) / speed))
	if len(out) > want {
		out = out[:want]
	}
	for len(out) < want {
		out = append(out, 0)
	}
	return out, nil
}

// sampleReader streams samples as float32 little-endian bytes.
type sampleReader struct {
	samples []float32
	pos     int
}

func newSampleReader(samples []float32) *sampleReader {
	return &sampleReader{samples: samples}
}

func (r *sampleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.samples) {
		return 0, io.EOF
	}
	n := 0
	for n+4 <= len(p) && r.pos < len(r.samples) {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(r.samples[r.pos]))
		r.pos++
		n += 4
	}
	if n == 0 {
		return 0, io.ErrShortBuffer
	}
	return n, nil
}
