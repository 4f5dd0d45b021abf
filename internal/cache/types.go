package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrClosed is returned when the cache has been closed
	ErrClosed = errors.New("cache closed")
)

// Level represents the cache tier
type Level int

const (
	// LevelMemory is the in-process LRU tier
	LevelMemory Level = iota
	// LevelDisk is the persistent tier
	LevelDisk
)

func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "memory"
	case LevelDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Stats holds cache performance counters
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// String formats the stats for log output.
func (s Stats) String() string {
	return humanize.Bytes(uint64(s.Size)) + " / " + humanize.Bytes(uint64(s.Capacity)) +
		", " + humanize.Comma(s.Items) + " items, " +
		humanize.FtoaWithDigits(s.HitRate()*100, 1) + "% hits"
}

// Config holds configuration for a Manager.
type Config struct {
	MemoryCapacity int64 // Bytes; 0 disables the memory tier

	DiskCapacity     int64  // Bytes; 0 disables the disk tier
	DiskPath         string // Directory for cache files
	CompressionLevel int    // Zstd level (1-22); 0 stores uncompressed

	TTL time.Duration // Disk entries older than this are pruned on open
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MemoryCapacity:   64 * 1024 * 1024,
		DiskCapacity:     512 * 1024 * 1024,
		CompressionLevel: 3,
		TTL:              7 * 24 * time.Hour,
	}
}

// Cache is implemented by each tier.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error
	Contains(key string) bool
	Stats() Stats
}

// Key derives a cache key from the parts that determine a synthesized
// payload. Parts are joined unambiguously before hashing.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// shortKey is used in log lines.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
