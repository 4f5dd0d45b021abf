package codec

import (
	"errors"
	"fmt"
)

// Reasons carried by DecodeError.
const (
	ReasonInvalidEncoding = "invalid encoding"
	ReasonTruncatedStream = "truncated PCM stream"
)

var (
	// ErrInvalidEncoding matches any DecodeError caused by malformed base64.
	ErrInvalidEncoding = &DecodeError{Reason: ReasonInvalidEncoding}

	// ErrTruncatedStream matches any DecodeError caused by an odd byte count.
	ErrTruncatedStream = &DecodeError{Reason: ReasonTruncatedStream}

	// ErrInvalidSampleRate is returned when a non-positive sample rate is given.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// ErrRateMismatch is returned when buffers with different rates are joined.
	ErrRateMismatch = errors.New("sample rate mismatch")

	// ErrInvalidHeader is returned when bytes do not start with a PCM WAV header.
	ErrInvalidHeader = errors.New("invalid WAV header")
)

// DecodeError reports a payload that could not be turned into samples.
// No partial output accompanies it.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return "decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DecodeError with the same reason.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Reason == e.Reason
}
