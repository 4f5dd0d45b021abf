package codec

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
)

// Decode turns a base64 payload of signed 16-bit little-endian PCM into a
// Buffer at sampleRate. Padded and unpadded base64 are both accepted and
// ASCII whitespace is ignored. An empty payload yields an empty Buffer.
//
// Malformed base64 fails with ErrInvalidEncoding and an odd number of
// decoded bytes fails with ErrTruncatedStream.
func Decode(payload string, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, &DecodeError{Reason: ReasonInvalidEncoding, Err: err}
	}
	return DecodePCM(raw, sampleRate)
}

// DecodePCM interprets raw as signed 16-bit little-endian PCM and returns
// the samples scaled by 1/32768.
func DecodePCM(raw []byte, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if len(raw)%BytesPerSample != 0 {
		return nil, &DecodeError{Reason: ReasonTruncatedStream}
	}

	samples := make([]float32, len(raw)/BytesPerSample)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*BytesPerSample:]))
		samples[i] = float32(s) / 32768.0
	}
	return &Buffer{Samples: samples, SampleRate: sampleRate}, nil
}

func decodeBase64(payload string) ([]byte, error) {
	if strings.ContainsAny(payload, " \t\r\n\f") {
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\r', '\n', '\f':
				return -1
			}
			return r
		}, payload)
	}

	// Unpadded input can never be a multiple of four characters long
	// unless it needs no padding at all.
	if len(payload)%4 == 0 {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
