package codec

import "time"

// Audio format constants for speech service output.
const (
	// DefaultSampleRate is the native output rate of the speech service.
	DefaultSampleRate = 24000
	// Channels is the number of audio channels (1 = mono)
	Channels = 1
	// BitDepth is the bit depth per sample
	BitDepth = 16
	// BytesPerSample is the number of bytes per sample
	BytesPerSample = BitDepth / 8
)

// MIME type and file extension of containers produced by EncodeWAV.
const (
	MIMEType  = "audio/wav"
	Extension = ".wav"
)

// Format represents PCM audio format parameters
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat returns the format the speech service produces.
func DefaultFormat() Format {
	return Format{
		SampleRate: DefaultSampleRate,
		Channels:   Channels,
		BitDepth:   BitDepth,
	}
}

// BytesPerFrame returns the number of bytes in one frame.
func (f Format) BytesPerFrame() int {
	return f.BitDepth / 8 * f.Channels
}

// ByteRate returns the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BytesPerFrame()
}

// Duration returns the playing time of the given number of frames.
func (f Format) Duration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}
