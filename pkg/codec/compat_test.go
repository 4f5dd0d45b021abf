package codec_test

import (
	"bytes"
	"testing"

	"github.com/go-audio/wav"
	"github.com/mwg-labs/voicestudio/pkg/codec"
)

// TestEncodeWAV_StandardDecoder checks that an independent WAV reader
// accepts the container and sees the same PCM values.
func TestEncodeWAV_StandardDecoder(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1, 0.125, -0.75}
	out := codec.EncodeWAV(samples, 24000)

	d := wav.NewDecoder(bytes.NewReader(out))
	if !d.IsValidFile() {
		t.Fatal("Decoder rejected the WAV container")
	}
	if d.SampleRate != 24000 || d.NumChans != 1 || d.BitDepth != 16 {
		t.Errorf("Format mismatch: rate=%d chans=%d depth=%d", d.SampleRate, d.NumChans, d.BitDepth)
	}

	buf, err := wav.NewDecoder(bytes.NewReader(out)).FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer failed: %v", err)
	}
	want := []int{0, 16384, -16384, 32767, -32768, 4096, -24576}
	if len(buf.Data) != len(want) {
		t.Fatalf("Sample count: got %d, want %d", len(buf.Data), len(want))
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Errorf("Sample %d: got %d, want %d", i, buf.Data[i], want[i])
		}
	}
}
