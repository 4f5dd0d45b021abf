package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultChunkRunes keeps a single request well inside the service limit.
const DefaultChunkRunes = 2000

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// Chunk splits text into pieces of at most maxRunes runes. Pieces break at
// paragraph and sentence boundaries where possible, then at spaces, and
// only split a word when nothing else fits. Whitespace inside a sentence
// is collapsed to single spaces. maxRunes <= 0 disables splitting.
func Chunk(text string, maxRunes int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	add := func(sep, piece string) {
		n := utf8.RuneCountInString(piece)
		if curLen > 0 && curLen+len(sep)+n <= maxRunes {
			cur.WriteString(sep)
			cur.WriteString(piece)
			curLen += len(sep) + n
			return
		}
		flush()
		cur.WriteString(piece)
		curLen = n
	}

	for i, para := range paragraphBreak.Split(text, -1) {
		for j, sentence := range Sentences(para) {
			sep := " "
			if i > 0 && j == 0 {
				sep = "\n\n"
			}
			for k, piece := range hardSplit(sentence, maxRunes) {
				if k > 0 {
					sep = " "
				}
				add(sep, piece)
			}
		}
	}
	flush()
	return chunks
}

// Sentences splits a paragraph after ., !, ? or … when followed by
// whitespace. Each sentence is trimmed with inner whitespace collapsed.
func Sentences(para string) []string {
	var out []string
	runes := []rune(para)
	start := 0
	for i, r := range runes {
		if !isTerminator(r) {
			continue
		}
		// Keep closing quotes and brackets with the sentence.
		end := i + 1
		for end < len(runes) && strings.ContainsRune(`"'”’)]»`, runes[end]) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue
		}
		if s := collapse(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
	}
	if s := collapse(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hardSplit cuts s into pieces of at most max runes, preferring the last
// space before the limit.
func hardSplit(s string, max int) []string {
	var out []string
	runes := []rune(s)
	for len(runes) > max {
		cut := max
		for i := max; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimSpace(string(runes[:cut])))
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
