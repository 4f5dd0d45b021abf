// Package codec converts between the speech service's raw PCM payloads and
// the two forms the rest of voicestudio consumes: normalized float samples
// for playback and self-contained 16-bit WAV files for download.
//
// The service returns signed 16-bit little-endian mono PCM, base64 encoded.
// Decode divides every sample by 32768 and EncodeWAV multiplies negative
// samples by 32768 and positive samples by 32767. The pairing is
// deliberate and keeps full scale in range on both sides.
//
// Both operations are pure: they allocate a fresh output on every call and
// may be used concurrently.
package codec
