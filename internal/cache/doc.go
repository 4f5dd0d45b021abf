// Package cache stores synthesized speech payloads so that converting the
// same text with the same voice and style does not call the service twice.
// It has an in-memory LRU tier (L1) and a zstd-compressed disk tier (L2)
// that survives between runs.
package cache
