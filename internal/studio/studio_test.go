package studio

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mwg-labs/voicestudio/internal/audio"
	"github.com/mwg-labs/voicestudio/internal/speech"
	"github.com/mwg-labs/voicestudio/internal/text"
	"github.com/mwg-labs/voicestudio/pkg/codec"
)

func newRequest(s string) Request {
	return Request{Text: s, Voice: speech.DefaultVoice(), Style: speech.DefaultStyle()}
}

func TestConvert(t *testing.T) {
	engine := &speech.MockEngine{SamplesPerRune: 10}
	st := New(engine, nil, DefaultOptions())

	var events []Progress
	req := newRequest("Xin chào các bạn.")
	req.OnProgress = func(p Progress) { events = append(events, p) }

	res, err := st.Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	wantFrames := len([]rune("Xin chào các bạn.")) * 10
	if res.Samples.Len() != wantFrames {
		t.Errorf("Frames: got %d, want %d", res.Samples.Len(), wantFrames)
	}
	if len(res.WAV) != codec.HeaderSize+2*wantFrames {
		t.Errorf("WAV length: got %d", len(res.WAV))
	}
	if res.Samples.SampleRate != codec.DefaultSampleRate {
		t.Errorf("Sample rate: got %d", res.Samples.SampleRate)
	}
	if res.Chunks != 1 {
		t.Errorf("Chunks: got %d", res.Chunks)
	}
	if res.ID == uuid.Nil {
		t.Error("Result should have an ID")
	}
	if res.Duration != res.Samples.Duration() {
		t.Errorf("Duration mismatch: %v vs %v", res.Duration, res.Samples.Duration())
	}

	h, err := codec.ReadWAVHeader(res.WAV)
	if err != nil {
		t.Fatalf("ReadWAVHeader failed: %v", err)
	}
	if h.Frames() != wantFrames {
		t.Errorf("Header frames: got %d", h.Frames())
	}

	if len(events) == 0 || events[len(events)-1].Stage != StageDone {
		t.Fatalf("Progress should end with StageDone: %+v", events)
	}
	last := 0.0
	for _, e := range events {
		if f := e.Fraction(); f < last {
			t.Errorf("Progress went backwards: %+v", events)
		} else {
			last = f
		}
	}
	if last != 1 {
		t.Errorf("Final fraction: got %v", last)
	}
}

// orderedSynth returns one sample per chunk whose value encodes the
// chunk's position, finishing later chunks first.
type orderedSynth struct {
	index map[string]int
}

func (o *orderedSynth) Synthesize(ctx context.Context, req speech.Request) (string, error) {
	i, ok := o.index[req.Text]
	if !ok {
		return "", errors.New("unexpected chunk " + req.Text)
	}
	time.Sleep(time.Duration(len(o.index)-i) * 5 * time.Millisecond)
	pcm := make([]byte, 2)
	binary.LittleEndian.PutUint16(pcm, uint16(int16(i*1000)))
	return base64.StdEncoding.EncodeToString(pcm), nil
}

func TestConvert_ChunksInOrder(t *testing.T) {
	chunks := []string{"Một.", "Hai.", "Ba.", "Bốn.", "Năm."}
	synth := &orderedSynth{index: map[string]int{}}
	for i, c := range chunks {
		synth.index[c] = i
	}

	st := New(synth, nil, Options{MaxChunkRunes: 5, Concurrency: 5})
	res, err := st.Convert(context.Background(), newRequest(strings.Join(chunks, " ")))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if res.Chunks != len(chunks) {
		t.Fatalf("Chunks: got %d, want %d", res.Chunks, len(chunks))
	}
	for i, s := range res.Samples.Samples {
		if want := float32(i*1000) / 32768; s != want {
			t.Errorf("Sample %d: got %v, want %v", i, s, want)
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		st := New(speech.NewMockEngine(), nil, DefaultOptions())
		if _, err := st.Convert(context.Background(), newRequest(" \n ")); !errors.Is(err, text.ErrEmptyText) {
			t.Errorf("Expected ErrEmptyText, got %v", err)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		st := New(&speech.MockEngine{Err: cause}, nil, DefaultOptions())
		_, err := st.Convert(context.Background(), newRequest("Xin chào"))

		var se *speech.ServiceError
		if !errors.As(err, &se) || !errors.Is(err, cause) {
			t.Fatalf("Expected ServiceError, got %v", err)
		}
		if !strings.Contains(err.Error(), "chunk 1/1") {
			t.Errorf("Error should name the chunk: %v", err)
		}
	})

	t.Run("truncated payload", func(t *testing.T) {
		st := New(payloadSynth("AAAA"), nil, DefaultOptions()) // 3 bytes
		_, err := st.Convert(context.Background(), newRequest("Xin chào"))
		if !errors.Is(err, codec.ErrTruncatedStream) {
			t.Errorf("Expected ErrTruncatedStream, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		st := New(&speech.MockEngine{Delay: time.Second}, nil, DefaultOptions())
		if _, err := st.Convert(ctx, newRequest("Xin chào")); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}

type payloadSynth string

func (p payloadSynth) Synthesize(context.Context, speech.Request) (string, error) {
	return string(p), nil
}

func TestPreview(t *testing.T) {
	t.Run("no playback", func(t *testing.T) {
		st := New(speech.NewMockEngine(), nil, DefaultOptions())
		if _, err := st.Preview(context.Background(), newRequest("a"), 1); !errors.Is(err, ErrNoPlayback) {
			t.Errorf("Expected ErrNoPlayback, got %v", err)
		}
		if err := st.Play(context.Background(), &Result{}, 1); !errors.Is(err, ErrNoPlayback) {
			t.Errorf("Expected ErrNoPlayback, got %v", err)
		}
	})

	tests := []struct {
		name  string
		input string
		runes int
	}{
		{"long input is cut", strings.Repeat("Xin chào các bạn. ", 10), text.PreviewRunes},
		{"blank input reads the sample", "", len([]rune(speech.SampleText))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := audio.NewMockContext(codec.DefaultSampleRate)
			mc.TimeScale = 0
			st := New(&speech.MockEngine{SamplesPerRune: 10}, audio.NewPlayback(mc), DefaultOptions())

			buf, err := st.Preview(context.Background(), newRequest(tt.input), 1.0)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			if buf.Len() != tt.runes*10 {
				t.Errorf("Preview frames: got %d, want %d", buf.Len(), tt.runes*10)
			}
			if err := st.Wait(context.Background()); err != nil {
				t.Fatalf("Wait failed: %v", err)
			}
			if n := len(mc.Players()); n != 1 {
				t.Errorf("Expected 1 player, got %d", n)
			}
		})
	}
}

func TestPlay(t *testing.T) {
	mc := audio.NewMockContext(codec.DefaultSampleRate)
	mc.TimeScale = 0
	st := New(speech.NewMockEngine(), audio.NewPlayback(mc), DefaultOptions())

	res, err := st.Convert(context.Background(), newRequest("Xin chào"))
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if err := st.Play(context.Background(), res, 1.5); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if err := st.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := st.Play(context.Background(), res, 3); !errors.Is(err, audio.ErrInvalidSpeed) {
		t.Errorf("Expected ErrInvalidSpeed, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.UnixMilli(1700000000123))
	if got != "mwg-voice-1700000000123.wav" {
		t.Errorf("FileName = %s", got)
	}
}

func TestSave(t *testing.T) {
	res := &Result{WAV: codec.EncodeWAV([]float32{0, 0.5}, 24000), CreatedAt: time.UnixMilli(42)}
	dir := t.TempDir()

	tests := []struct {
		name string
		out  string
		want string
	}{
		{"directory", dir, filepath.Join(dir, "mwg-voice-42.wav")},
		{"file", filepath.Join(dir, "out.wav"), filepath.Join(dir, "out.wav")},
		{"nested file", filepath.Join(dir, "a", "b", "c.wav"), filepath.Join(dir, "a", "b", "c.wav")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Save(res, tt.out)
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if path != tt.want {
				t.Errorf("Path: got %s, want %s", path, tt.want)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if string(data) != string(res.WAV) {
				t.Error("Saved bytes differ")
			}
		})
	}
}

func TestSaveRenameFailure(t *testing.T) {
	res := &Result{WAV: codec.EncodeWAV([]float32{0.25}, 24000), CreatedAt: time.UnixMilli(7)}
	dir := t.TempDir()

	// a non-empty directory where the file should go
	target := filepath.Join(dir, FileName(res.CreatedAt))
	if err := os.MkdirAll(filepath.Join(target, "keep"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	if _, err := Save(res, dir); err == nil {
		t.Fatal("Expected Save to fail")
	}
	if _, err := os.Stat(target + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Temporary file left behind: %v", err)
	}
}
