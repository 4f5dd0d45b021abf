// Package audio plays sample buffers through the host audio device.
//
// There is no process-wide audio context. Callers acquire a Context with
// NewContext at the start of a session, bind a Playback to it and release
// it with Close when the session ends. A mock Context stands in when no
// device is available or when running under CI.
package audio
