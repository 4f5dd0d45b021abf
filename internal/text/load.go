package text

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrEmptyText indicates input with nothing but whitespace
	ErrEmptyText = errors.New("please enter text or upload a file")

	// ErrUnsupportedFile indicates a file type that cannot be read
	ErrUnsupportedFile = errors.New("unsupported file type: only .txt and .md files can be read")

	// ErrNotUTF8 indicates input that is not valid UTF-8 after BOM handling
	ErrNotUTF8 = errors.New("text is not valid UTF-8")
)

// Supported reports whether Load accepts files with this name.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// Load reads a text or Markdown file and returns normalized plain text.
func Load(path string) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode(data, filepath.Ext(path))
}

func hasUTF16BOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFE && b[1] == 0xFF) || (b[0] == 0xFF && b[1] == 0xFE))
}

// Decode turns raw file content into normalized plain text. ext selects
// Markdown handling; anything else is treated as plain text. A UTF-8 or
// UTF-16 byte order mark is honored.
func Decode(data []byte, ext string) (string, error) {
	if !hasUTF16BOM(data) && !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}

	s := string(decoded)
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		s = PlainText(s)
	}

	s = Normalize(s)
	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}
