// Package speech turns text into an encoded PCM payload through a remote
// speech-generation service.
//
// A Synthesizer takes a Request (text, voice and reading style) and returns
// the base64 payload exactly as the service produced it. Decoding that
// payload is left to the codec package. GeminiEngine talks to the Gemini
// API, MockEngine produces deterministic tones for tests and offline use,
// and CachedSynthesizer puts either behind the payload cache.
package speech
