// Package studio ties synthesis, decoding, encoding and playback together
// into the operations the command line exposes: convert, preview and play.
package studio
