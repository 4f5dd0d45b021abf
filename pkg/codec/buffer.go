package codec

import "time"

// Buffer is a mono sequence of normalized samples tagged with its sample
// rate. Values produced by Decode lie in [-1.0, 1.0]. A Buffer is treated as
// immutable once built; consumers that need to change samples copy them.
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// Len returns the number of frames in the buffer.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Samples)
}

// Duration returns the playing time of the buffer at its own rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil {
		return 0
	}
	return Format{SampleRate: b.SampleRate, Channels: Channels, BitDepth: BitDepth}.Duration(len(b.Samples))
}

// WAV encodes the buffer at its own sample rate.
func (b *Buffer) WAV() []byte {
	return EncodeWAV(b.Samples, b.SampleRate)
}

// Concat joins buffers end to end into a new buffer. All buffers must share
// one sample rate. Nil entries are skipped.
func Concat(buffers ...*Buffer) (*Buffer, error) {
	rate, total := 0, 0
	for _, b := range buffers {
		if b == nil {
			continue
		}
		if rate == 0 {
			rate = b.SampleRate
		} else if b.SampleRate != rate {
			return nil, ErrRateMismatch
		}
		total += len(b.Samples)
	}
	if rate == 0 {
		return nil, ErrInvalidSampleRate
	}

	out := &Buffer{Samples: make([]float32, 0, total), SampleRate: rate}
	for _, b := range buffers {
		if b != nil {
			out.Samples = append(out.Samples, b.Samples...)
		}
	}
	return out, nil
}
