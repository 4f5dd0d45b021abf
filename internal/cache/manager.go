package cache

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Manager checks the memory tier first, then the disk tier, promoting disk
// hits into memory. Either tier may be disabled by giving it no capacity.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewManager opens the tiers enabled by config. When the disk tier is
// enabled, entries older than config.TTL are pruned on open.
func NewManager(config Config) (*Manager, error) {
	m := &Manager{}

	if config.MemoryCapacity > 0 {
		m.memory = NewMemoryCache(config.MemoryCapacity)
	}

	if config.DiskCapacity > 0 {
		if config.DiskPath == "" {
			return nil, errors.New("disk cache enabled without a path")
		}
		disk, err := NewDiskCache(config.DiskPath, config.DiskCapacity, config.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		if config.TTL > 0 {
			if n := disk.Prune(config.TTL); n > 0 {
				log.Debug("Pruned expired cache entries", "count", n, "ttl", config.TTL)
			}
		}
		m.disk = disk
	}

	return m, nil
}

// Get retrieves a value from the first tier that has it.
func (m *Manager) Get(key string) ([]byte, bool) {
	if m.memory != nil {
		if data, ok := m.memory.Get(key); ok {
			log.Debug("Cache hit", "level", LevelMemory, "key", shortKey(key))
			return data, true
		}
	}

	if m.disk != nil {
		if data, ok := m.disk.Get(key); ok {
			log.Debug("Cache hit", "level", LevelDisk, "key", shortKey(key))
			if m.memory != nil {
				_ = m.memory.Put(key, data)
			}
			return data, true
		}
	}

	return nil, false
}

// Put stores a value in every enabled tier. Values too large for a tier
// are skipped for that tier only.
func (m *Manager) Put(key string, value []byte) error {
	if m.memory != nil {
		if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
			return fmt.Errorf("memory cache: %w", err)
		}
	}
	if m.disk != nil {
		if err := m.disk.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
			return fmt.Errorf("disk cache: %w", err)
		}
	}
	return nil
}

// Delete removes a key from every tier.
func (m *Manager) Delete(key string) error {
	var errs []error
	if m.memory != nil {
		errs = append(errs, m.memory.Delete(key))
	}
	if m.disk != nil {
		errs = append(errs, m.disk.Delete(key))
	}
	return errors.Join(errs...)
}

// Clear empties every tier.
func (m *Manager) Clear() error {
	var errs []error
	if m.memory != nil {
		errs = append(errs, m.memory.Clear())
	}
	if m.disk != nil {
		errs = append(errs, m.disk.Clear())
	}
	return errors.Join(errs...)
}

// Stats returns per-tier statistics for the enabled tiers.
func (m *Manager) Stats() map[Level]Stats {
	stats := make(map[Level]Stats, 2)
	if m.memory != nil {
		stats[LevelMemory] = m.memory.Stats()
	}
	if m.disk != nil {
		stats[LevelDisk] = m.disk.Stats()
	}
	return stats
}

// Close persists the disk index.
func (m *Manager) Close() error {
	if m.disk != nil {
		return m.disk.Close()
	}
	return nil
}
