// Package config loads voicestudio settings from the environment, the
// config file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/mwg-labs/voicestudio/internal/audio"
	"github.com/mwg-labs/voicestudio/internal/cache"
	"github.com/mwg-labs/voicestudio/internal/speech"
	"github.com/mwg-labs/voicestudio/internal/studio"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Engines lists the accepted engine names.
var Engines = []string{"gemini", "mock"}

// Config contains all voicestudio configuration options.
type Config struct {
	// Speech service
	Engine            string        `yaml:"engine" mapstructure:"engine" env:"VOICESTUDIO_ENGINE" envDefault:"gemini"`
	Model             string        `yaml:"model" mapstructure:"model" env:"VOICESTUDIO_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	APIKey            string        `yaml:"api_key" mapstructure:"api_key" env:"VOICESTUDIO_API_KEY"`
	Language          string        `yaml:"language" mapstructure:"language" env:"VOICESTUDIO_LANGUAGE" envDefault:"Vietnamese"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute" env:"VOICESTUDIO_REQUESTS_PER_MINUTE" envDefault:"10"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout" env:"VOICESTUDIO_TIMEOUT" envDefault:"2m"`

	// Voice defaults
	Voice string  `yaml:"voice" mapstructure:"voice" env:"VOICESTUDIO_VOICE" envDefault:"vn-male-hanoi"`
	Style string  `yaml:"style" mapstructure:"style" env:"VOICESTUDIO_STYLE" envDefault:"story"`
	Speed float64 `yaml:"speed" mapstructure:"speed" env:"VOICESTUDIO_SPEED" envDefault:"1.0"`

	// Conversion
	SampleRate  int    `yaml:"sample_rate" mapstructure:"sample_rate" env:"VOICESTUDIO_SAMPLE_RATE" envDefault:"24000"`
	ChunkRunes  int    `yaml:"chunk_runes" mapstructure:"chunk_runes" env:"VOICESTUDIO_CHUNK_RUNES" envDefault:"2000"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency" env:"VOICESTUDIO_CONCURRENCY" envDefault:"3"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir" env:"VOICESTUDIO_OUTPUT_DIR" envDefault:"."`

	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
	Audio AudioConfig `yaml:"audio" mapstructure:"audio"`
}

// CacheConfig contains payload cache settings.
type CacheConfig struct {
	Dir              string `yaml:"dir" mapstructure:"dir" env:"VOICESTUDIO_CACHE_DIR"`
	MemoryMB         int    `yaml:"memory_mb" mapstructure:"memory_mb" env:"VOICESTUDIO_CACHE_MEMORY_MB" envDefault:"64"`
	DiskMB           int    `yaml:"disk_mb" mapstructure:"disk_mb" env:"VOICESTUDIO_CACHE_DISK_MB" envDefault:"512"`
	TTLDays          int    `yaml:"ttl_days" mapstructure:"ttl_days" env:"VOICESTUDIO_CACHE_TTL_DAYS" envDefault:"7"`
	CompressionLevel int    `yaml:"compression_level" mapstructure:"compression_level" env:"VOICESTUDIO_CACHE_COMPRESSION_LEVEL" envDefault:"3"`
}

// AudioConfig contains playback settings.
type AudioConfig struct {
	Kind   string        `yaml:"kind" mapstructure:"kind" env:"VOICESTUDIO_AUDIO_KIND" envDefault:"auto"`
	Buffer time.Duration `yaml:"buffer" mapstructure:"buffer" env:"VOICESTUDIO_AUDIO_BUFFER"`
}

// Default returns a Config with the built-in defaults, ignoring the
// environment.
func Default() Config {
	return Config{
		Engine:            "gemini",
		Model:             speech.DefaultModel,
		Language:          speech.DefaultLanguage,
		RequestsPerMinute: 10,
		Timeout:           2 * time.Minute,

		Voice: speech.DefaultVoice().ID,
		Style: speech.DefaultStyle().ID,
		Speed: 1.0,

		SampleRate:  24000,
		ChunkRunes:  2000,
		Concurrency: 3,
		OutputDir:   ".",

		Cache: CacheConfig{
			MemoryMB:         64,
			DiskMB:           512,
			TTLDays:          7,
			CompressionLevel: 3,
		},
		Audio: AudioConfig{Kind: "auto"},
	}
}

// Validate checks if the configuration is valid. Engine and audio kind
// are lowercased in place.
func (c *Config) Validate() error {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	if !slices.Contains(Engines, c.Engine) {
		return fmt.Errorf("%w: engine %q must be one of %v", ErrInvalidConfig, c.Engine, Engines)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidConfig)
	}

	if _, err := speech.FindVoice(c.Voice); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := speech.FindStyle(c.Style); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Speed < audio.MinSpeed || c.Speed > audio.MaxSpeed {
		return fmt.Errorf("%w: speed must be between %.1f and %.1f, got %.2f", ErrInvalidConfig, audio.MinSpeed, audio.MaxSpeed, c.Speed)
	}
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		return fmt.Errorf("%w: sample rate must be between 8000 and 192000, got %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.RequestsPerMinute < 1 || c.RequestsPerMinute > 1000 {
		return fmt.Errorf("%w: requests per minute must be between 1 and 1000, got %d", ErrInvalidConfig, c.RequestsPerMinute)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("%w: timeout must be at least 1 second, got %v", ErrInvalidConfig, c.Timeout)
	}
	if c.ChunkRunes != 0 && c.ChunkRunes < 100 {
		return fmt.Errorf("%w: chunk size must be 0 or at least 100 characters, got %d", ErrInvalidConfig, c.ChunkRunes)
	}
	if c.Concurrency < 1 || c.Concurrency > 16 {
		return fmt.Errorf("%w: concurrency must be between 1 and 16, got %d", ErrInvalidConfig, c.Concurrency)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("%w: cache: %w", ErrInvalidConfig, err)
	}

	c.Audio.Kind = strings.ToLower(strings.TrimSpace(c.Audio.Kind))
	if _, err := audio.ParseKind(c.Audio.Kind); err != nil {
		return fmt.Errorf("%w: audio: %w", ErrInvalidConfig, err)
	}
	if c.Audio.Buffer < 0 {
		return fmt.Errorf("%w: audio: buffer cannot be negative, got %v", ErrInvalidConfig, c.Audio.Buffer)
	}

	return nil
}

// Validate checks if the cache configuration is valid.
func (c *CacheConfig) Validate() error {
	if c.MemoryMB < 0 || c.MemoryMB > 4096 {
		return fmt.Errorf("memory_mb must be between 0 and 4096, got %d", c.MemoryMB)
	}
	if c.DiskMB < 0 || c.DiskMB > 100000 {
		return fmt.Errorf("disk_mb must be between 0 and 100000, got %d", c.DiskMB)
	}
	if c.TTLDays < 0 {
		return fmt.Errorf("ttl_days cannot be negative, got %d", c.TTLDays)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 22 {
		return fmt.Errorf("compression_level must be between 0 and 22, got %d", c.CompressionLevel)
	}
	return nil
}

// ToCacheConfig converts the cache settings for cache.NewManager. An empty
// directory resolves to voicestudio/cache under the user cache dir.
func (c *Config) ToCacheConfig() (cache.Config, error) {
	dir := c.Cache.Dir
	if dir == "" && c.Cache.DiskMB > 0 {
		base, err := os.UserCacheDir()
		if err != nil {
			return cache.Config{}, fmt.Errorf("unable to find cache directory: %w", err)
		}
		dir = filepath.Join(base, "voicestudio", "cache")
	}

	return cache.Config{
		MemoryCapacity:   int64(c.Cache.MemoryMB) * 1024 * 1024,
		DiskCapacity:     int64(c.Cache.DiskMB) * 1024 * 1024,
		DiskPath:         dir,
		CompressionLevel: c.Cache.CompressionLevel,
		TTL:              time.Duration(c.Cache.TTLDays) * 24 * time.Hour,
	}, nil
}

// ToGeminiConfig converts the service settings for speech.NewGeminiEngine.
func (c *Config) ToGeminiConfig(metrics *speech.Metrics) speech.GeminiConfig {
	return speech.GeminiConfig{
		APIKey:            c.APIKey,
		Model:             c.Model,
		Language:          c.Language,
		RequestsPerMinute: c.RequestsPerMinute,
		Timeout:           c.Timeout,
		Metrics:           metrics,
	}
}

// ToStudioOptions converts the conversion settings.
func (c *Config) ToStudioOptions() studio.Options {
	return studio.Options{
		SampleRate:    c.SampleRate,
		MaxChunkRunes: c.ChunkRunes,
		Concurrency:   c.Concurrency,
	}
}

// ToAudioOptions converts the playback settings.
func (c *Config) ToAudioOptions() (audio.Options, error) {
	kind, err := audio.ParseKind(c.Audio.Kind)
	if err != nil {
		return audio.Options{}, err
	}
	return audio.Options{
		Kind:       kind,
		SampleRate: c.SampleRate,
		BufferSize: c.Audio.Buffer,
	}, nil
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	expanded, err := homedir.Expand(os.ExpandEnv(path))
	if err != nil {
		return path
	}
	return expanded
}
