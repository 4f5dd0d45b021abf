package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiskCache_PutGet(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1024*1024, 3)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	small := []byte("tiny payload")
	large := bytes.Repeat([]byte("AAAAAAAAAAAAAAAA"), 512) // compressible

	for key, value := range map[string][]byte{"small": small, "large": large} {
		if err := dc.Put(key, value); err != nil {
			t.Fatalf("Put(%s) failed: %v", key, err)
		}
		got, ok := dc.Get(key)
		if !ok {
			t.Fatalf("Get(%s) missed", key)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("Get(%s) returned different bytes", key)
		}
	}

	if !dc.index["large"].Compressed {
		t.Error("Large compressible entry was not compressed")
	}
	if dc.index["small"].Compressed {
		t.Error("Small entry should be stored as is")
	}
	if dc.Stats().Size >= int64(len(small)+len(large)) {
		t.Errorf("Compression did not reduce size: %d", dc.Stats().Size)
	}
}

func TestDiskCache_Persistence(t *testing.T) {
	dir := t.TempDir()

	dc, err := NewDiskCache(dir, 1024*1024, 3)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	if err := dc.Put("key", []byte("value")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := dc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewDiskCache(dir, 1024*1024, 3)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close() //nolint:errcheck

	got, ok := reopened.Get("key")
	if !ok || string(got) != "value" {
		t.Errorf("Entry did not survive reopen: %q, %v", got, ok)
	}
	if reopened.Stats().Size != 5 {
		t.Errorf("Size after reopen: got %d, want 5", reopened.Stats().Size)
	}
}

func TestDiskCache_MissingFile(t *testing.T) {
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, 1024, 0)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	_ = dc.Put("gone", []byte("data"))
	if err := os.Remove(filepath.Join(dir, "gone.cache")); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, ok := dc.Get("gone"); ok {
		t.Error("Get returned data for a deleted file")
	}
	if dc.Contains("gone") {
		t.Error("Entry should be dropped after a failed read")
	}
	if dc.Stats().Size != 0 {
		t.Errorf("Size should be zero, got %d", dc.Stats().Size)
	}
}

func TestDiskCache_Eviction(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 100, 0)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	_ = dc.Put("a", make([]byte, 40))
	time.Sleep(2 * time.Millisecond)
	_ = dc.Put("b", make([]byte, 40))
	time.Sleep(2 * time.Millisecond)
	dc.Get("a")

	if err := dc.Put("c", make([]byte, 40)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if dc.Contains("b") {
		t.Error("Least recently used entry should have been evicted")
	}
	if !dc.Contains("a") || !dc.Contains("c") {
		t.Error("Recent entries should remain")
	}

	if err := dc.Put("huge", make([]byte, 101)); err != ErrItemTooLarge {
		t.Errorf("Expected ErrItemTooLarge, got %v", err)
	}
}

func TestDiskCache_Prune(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1024, 0)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	_ = dc.Put("old", []byte("1"))
	_ = dc.Put("new", []byte("2"))
	dc.index["old"].Created = time.Now().Add(-48 * time.Hour)

	if n := dc.Prune(24 * time.Hour); n != 1 {
		t.Errorf("Prune removed %d entries, want 1", n)
	}
	if dc.Contains("old") || !dc.Contains("new") {
		t.Error("Prune removed the wrong entries")
	}
}

func TestDiskCache_Closed(t *testing.T) {
	dc, err := NewDiskCache(t.TempDir(), 1024, 3)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	_ = dc.Close()

	if err := dc.Put("k", []byte("v")); err != ErrClosed {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if err := dc.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}
