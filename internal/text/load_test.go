package text

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		want    string
		wantErr error
	}{
		{
			name: "plain text",
			file: "a.txt",
			data: []byte("  Xin chào\r\nthế giới  "),
			want: "Xin chào\nthế giới",
		},
		{
			name: "utf-8 bom",
			file: "b.TXT",
			data: append([]byte{0xEF, 0xBB, 0xBF}, "Chào"...),
			want: "Chào",
		},
		{
			name: "utf-16le bom",
			file: "c.txt",
			data: []byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00},
			want: "Hi",
		},
		{
			name: "markdown",
			file: "d.md",
			data: []byte("# Tiêu đề\n\nĐây là **đậm** và [liên kết](http://x).\n\n```\ncode\n```\n\n- một\n- hai\n"),
			want: "Tiêu đề\n\nĐây là đậm và liên kết.\n\nmột\n\nhai",
		},
		{
			name:    "unsupported",
			file:    "e.pdf",
			data:    []byte("%PDF"),
			wantErr: ErrUnsupportedFile,
		},
		{
			name:    "blank",
			file:    "f.txt",
			data:    []byte(" \n\t "),
			wantErr: ErrEmptyText,
		},
		{
			name:    "invalid utf-8",
			file:    "g.txt",
			data:    []byte{'a', 0xFF, 'b'},
			wantErr: ErrNotUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeFile(t, tt.file, tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Load = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	decomposed := "Tie\u0302\u0301ng Vie\u0323\u0302t"
	if got := Normalize(decomposed); got != "Ti\u1ebfng Vi\u1ec7t" {
		t.Errorf("Normalize did not compose: %q", got)
	}
	if got := Normalize("a\rb\r\nc"); got != "a\nb\nc" {
		t.Errorf("Normalize line endings: %q", got)
	}
}

func TestPreview(t *testing.T) {
	long := "Một hai ba bốn năm sáu bảy tám chín mười mười một mười hai mười ba"

	if got := Preview(long, PreviewRunes); len([]rune(got)) != PreviewRunes {
		t.Errorf("Preview length: got %d runes", len([]rune(got)))
	}
	if got := Preview("ngắn", PreviewRunes); got != "ngắn" {
		t.Errorf("Short preview: %q", got)
	}
	if got := Preview("   ", PreviewRunes); got == "" || got == "   " {
		t.Errorf("Blank input should preview the sample text, got %q", got)
	}
}
