package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// HeaderSize is the size of the canonical WAV header written by EncodeWAV.
const HeaderSize = 44

// formatPCM is the audio format code for integer PCM.
const formatPCM = 1

// EncodeWAV wraps samples in a mono 16-bit PCM WAV container declaring
// sampleRate. The result is exactly HeaderSize+2*len(samples) bytes.
//
// Samples outside [-1, 1] are clamped rather than rejected, so the encoder
// never produces a wrapped-around integer. NaN encodes as silence. Negative
// samples scale by 32768 and the rest by 32767, then round to nearest.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	dataSize := len(samples) * BytesPerSample
	out := make([]byte, HeaderSize+dataSize)

	le := binary.LittleEndian

	// RIFF header
	copy(out[0:4], "RIFF")
	le.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	// fmt subchunk
	copy(out[12:16], "fmt ")
	le.PutUint32(out[16:20], 16)
	le.PutUint16(out[20:22], formatPCM)
	le.PutUint16(out[22:24], Channels)
	le.PutUint32(out[24:28], uint32(sampleRate))
	le.PutUint32(out[28:32], uint32(sampleRate*Channels*BytesPerSample))
	le.PutUint16(out[32:34], Channels*BytesPerSample)
	le.PutUint16(out[34:36], BitDepth)

	// data subchunk
	copy(out[36:40], "data")
	le.PutUint32(out[40:44], uint32(dataSize))

	pcm := out[HeaderSize:]
	for i, v := range samples {
		le.PutUint16(pcm[i*BytesPerSample:], uint16(toInt16(v)))
	}
	return out
}

func toInt16(v float32) int16 {
	s := float64(v)
	switch {
	case math.IsNaN(s):
		return 0
	case s > 1:
		s = 1
	case s < -1:
		s = -1
	}
	if s < 0 {
		return int16(math.Round(s * 32768))
	}
	return int16(math.Round(s * 32767))
}

// Header holds the fields of a canonical 44-byte PCM WAV header.
type Header struct {
	ChunkSize     uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Frames returns the number of frames declared by the data chunk.
func (h Header) Frames() int {
	if h.BlockAlign == 0 {
		return 0
	}
	return int(h.DataSize) / int(h.BlockAlign)
}

// ReadWAVHeader parses the canonical header at the start of b. It only
// understands the fixed layout EncodeWAV writes: RIFF/WAVE, a 16-byte fmt
// chunk, then the data chunk.
func ReadWAVHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidHeader, HeaderSize, len(b))
	}
	if !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return Header{}, fmt.Errorf("%w: missing RIFF/WAVE magic", ErrInvalidHeader)
	}
	if !bytes.Equal(b[12:16], []byte("fmt ")) || !bytes.Equal(b[36:40], []byte("data")) {
		return Header{}, fmt.Errorf("%w: unexpected chunk layout", ErrInvalidHeader)
	}

	le := binary.LittleEndian
	if size := le.Uint32(b[16:20]); size != 16 {
		return Header{}, fmt.Errorf("%w: fmt chunk size %d", ErrInvalidHeader, size)
	}
	return Header{
		ChunkSize:     le.Uint32(b[4:8]),
		AudioFormat:   le.Uint16(b[20:22]),
		Channels:      le.Uint16(b[22:24]),
		SampleRate:    le.Uint32(b[24:28]),
		ByteRate:      le.Uint32(b[28:32]),
		BlockAlign:    le.Uint16(b[32:34]),
		BitsPerSample: le.Uint16(b[34:36]),
		DataSize:      le.Uint32(b[40:44]),
	}, nil
}
