package studio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mwg-labs/voicestudio/internal/audio"
	"github.com/mwg-labs/voicestudio/internal/speech"
	"github.com/mwg-labs/voicestudio/internal/text"
	"github.com/mwg-labs/voicestudio/pkg/codec"
)

// ErrNoPlayback indicates a playback operation on a studio built without
// an audio context.
var ErrNoPlayback = errors.New("no audio playback configured")

// Options tune conversions.
type Options struct {
	SampleRate    int // rate of the service's PCM payloads
	MaxChunkRunes int // per-request text limit; 0 sends the whole text
	Concurrency   int // chunk requests in flight
}

// DefaultOptions returns settings for the Gemini service.
func DefaultOptions() Options {
	return Options{
		SampleRate:    codec.DefaultSampleRate,
		MaxChunkRunes: text.DefaultChunkRunes,
		Concurrency:   3,
	}
}

// Request describes one conversion.
type Request struct {
	Text  string
	Voice speech.Voice
	Style speech.Style

	// OnProgress is called as chunks complete. Calls are serialized.
	OnProgress func(Progress)
}

// Result of a conversion.
type Result struct {
	ID        uuid.UUID
	Samples   *codec.Buffer
	WAV       []byte
	Duration  time.Duration
	Chunks    int
	Voice     speech.Voice
	Style     speech.Style
	CreatedAt time.Time
}

// Studio converts text to audio with one Synthesizer and, optionally,
// plays it through one Playback.
type Studio struct {
	synth    speech.Synthesizer
	playback *audio.Playback
	opts     Options
}

// New creates a studio. playback may be nil when nothing will be played.
func New(synth speech.Synthesizer, playback *audio.Playback, opts Options) *Studio {
	def := DefaultOptions()
	if opts.SampleRate <= 0 {
		opts.SampleRate = def.SampleRate
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Studio{synth: synth, playback: playback, opts: opts}
}

// Convert synthesizes the whole text and returns the decoded samples and
// their WAV encoding. Long text is split into chunks that are synthesized
// concurrently and joined in order. The first failing chunk cancels the
// rest and its error is returned.
func (s *Studio) Convert(ctx context.Context, req Request) (*Result, error) {
	var mu sync.Mutex
	report := func(p Progress) {
		if req.OnProgress != nil {
			mu.Lock()
			req.OnProgress(p)
			mu.Unlock()
		}
	}

	report(Progress{Stage: StageChunking})
	body := text.Normalize(req.Text)
	if body == "" {
		return nil, text.ErrEmptyText
	}
	chunks := text.Chunk(body, s.opts.MaxChunkRunes)
	total := len(chunks)

	log.Debug("Converting text",
		"runes", len([]rune(body)),
		"chunks", total,
		"voice", req.Voice.ID,
		"style", req.Style.ID)
	report(Progress{Stage: StageSynthesizing, Total: total})

	buffers := make([]*codec.Buffer, total)
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			payload, err := s.synth.Synthesize(gctx, speech.Request{
				Text:  chunk,
				Voice: req.Voice,
				Style: req.Style,
			})
			if err != nil {
				return fmt.Errorf("chunk %d/%d: %w", i+1, total, err)
			}
			buf, err := codec.Decode(payload, s.opts.SampleRate)
			if err != nil {
				return fmt.Errorf("chunk %d/%d: %w", i+1, total, err)
			}
			buffers[i] = buf
			report(Progress{Stage: StageSynthesizing, Done: int(done.Add(1)), Total: total})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report(Progress{Stage: StageEncoding, Done: total, Total: total})
	samples, err := codec.Concat(buffers...)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:        uuid.New(),
		Samples:   samples,
		WAV:       samples.WAV(),
		Duration:  samples.Duration(),
		Chunks:    total,
		Voice:     req.Voice,
		Style:     req.Style,
		CreatedAt: time.Now(),
	}
	report(Progress{Stage: StageDone, Done: total, Total: total})

	log.Info("Conversion complete",
		"id", res.ID,
		"duration", res.Duration,
		"bytes", len(res.WAV),
		"chunks", total)
	return res, nil
}

// Preview synthesizes the first PreviewRunes runes of the request text,
// or the sample text when it is blank, and starts playing it at speed.
// Any earlier playback is stopped.
func (s *Studio) Preview(ctx context.Context, req Request, speed float64) (*codec.Buffer, error) {
	if s.playback == nil {
		return nil, ErrNoPlayback
	}
	s.playback.Stop()

	payload, err := s.synth.Synthesize(ctx, speech.Request{
		Text:  text.Preview(text.Normalize(req.Text), text.PreviewRunes),
		Voice: req.Voice,
		Style: req.Style,
	})
	if err != nil {
		return nil, err
	}
	buf, err := codec.Decode(payload, s.opts.SampleRate)
	if err != nil {
		return nil, err
	}
	if err := s.playback.Play(ctx, buf, speed); err != nil {
		return nil, err
	}
	return buf, nil
}

// Play starts playing a converted result at speed.
func (s *Studio) Play(ctx context.Context, res *Result, speed float64) error {
	if s.playback == nil {
		return ErrNoPlayback
	}
	return s.playback.Play(ctx, res.Samples, speed)
}

// Wait blocks until the current playback ends.
func (s *Studio) Wait(ctx context.Context) error {
	if s.playback == nil {
		return nil
	}
	return s.playback.Wait(ctx)
}

// FileName is the download name for a result created at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("mwg-voice-%d%s", t.UnixMilli(), codec.Extension)
}

// Save writes the result's WAV. out may be a file path, an existing
// directory, or empty for the working directory; the last two get
// FileName(res.CreatedAt). The written path is returned.
func Save(res *Result, out string) (string, error) {
	path := out
	if out == "" {
		path = FileName(res.CreatedAt)
	} else if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		path = filepath.Join(out, FileName(res.CreatedAt))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, res.WAV, 0o644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
