package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mwg-labs/voicestudio/internal/speech"
)

// PreviewRunes is how much of the input a preview reads.
const PreviewRunes = 50

// Normalize converts text to NFC, unifies line endings and trims it.
// Vietnamese input often arrives decomposed, which changes both cache keys
// and how the service reads it.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(norm.NFC.String(s))
}

// Preview returns the first n runes of text, or the sample text when text
// is blank.
func Preview(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return speech.SampleText
	}
	runes := []rune(text)
	if n > 0 && len(runes) > n {
		return string(runes[:n])
	}
	return text
}
