package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/mwg-labs/voicestudio/internal/audio"
)

// clearEnv blanks every variable Load reads so the host environment does
// not leak into the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY",
		"VOICESTUDIO_ENGINE", "VOICESTUDIO_MODEL", "VOICESTUDIO_API_KEY",
		"VOICESTUDIO_LANGUAGE", "VOICESTUDIO_REQUESTS_PER_MINUTE", "VOICESTUDIO_TIMEOUT",
		"VOICESTUDIO_VOICE", "VOICESTUDIO_STYLE", "VOICESTUDIO_SPEED",
		"VOICESTUDIO_SAMPLE_RATE", "VOICESTUDIO_CHUNK_RUNES", "VOICESTUDIO_CONCURRENCY",
		"VOICESTUDIO_OUTPUT_DIR", "VOICESTUDIO_CACHE_DIR", "VOICESTUDIO_CACHE_MEMORY_MB",
		"VOICESTUDIO_CACHE_DISK_MB", "VOICESTUDIO_CACHE_TTL_DAYS",
		"VOICESTUDIO_CACHE_COMPRESSION_LEVEL", "VOICESTUDIO_AUDIO_KIND", "VOICESTUDIO_AUDIO_BUFFER",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.Engine != "gemini" {
		t.Errorf("Default engine should be gemini, got %s", cfg.Engine)
	}
	if cfg.SampleRate != 24000 {
		t.Errorf("Default sample rate should be 24000, got %d", cfg.SampleRate)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:   "engine is case insensitive",
			modify: func(c *Config) { c.Engine = "MOCK" },
		},
		{
			name:    "invalid engine",
			modify:  func(c *Config) { c.Engine = "piper" },
			wantErr: true,
			errMsg:  "engine",
		},
		{
			name:    "empty model",
			modify:  func(c *Config) { c.Model = "" },
			wantErr: true,
			errMsg:  "model cannot be empty",
		},
		{
			name:    "unknown voice",
			modify:  func(c *Config) { c.Voice = "zzzz" },
			wantErr: true,
			errMsg:  "voice",
		},
		{
			name:    "unknown style",
			modify:  func(c *Config) { c.Style = "zzzz" },
			wantErr: true,
			errMsg:  "style",
		},
		{
			name:    "speed too high",
			modify:  func(c *Config) { c.Speed = 2.5 },
			wantErr: true,
			errMsg:  "speed must be between",
		},
		{
			name:    "speed too low",
			modify:  func(c *Config) { c.Speed = 0.25 },
			wantErr: true,
			errMsg:  "speed must be between",
		},
		{
			name:    "sample rate too low",
			modify:  func(c *Config) { c.SampleRate = 0 },
			wantErr: true,
			errMsg:  "sample rate must be between",
		},
		{
			name:    "rate limit zero",
			modify:  func(c *Config) { c.RequestsPerMinute = 0 },
			wantErr: true,
			errMsg:  "requests per minute",
		},
		{
			name:    "timeout too short",
			modify:  func(c *Config) { c.Timeout = 100 * time.Millisecond },
			wantErr: true,
			errMsg:  "timeout must be at least",
		},
		{
			name:   "chunking disabled",
			modify: func(c *Config) { c.ChunkRunes = 0 },
		},
		{
			name:    "chunk too small",
			modify:  func(c *Config) { c.ChunkRunes = 10 },
			wantErr: true,
			errMsg:  "chunk size",
		},
		{
			name:    "concurrency too high",
			modify:  func(c *Config) { c.Concurrency = 64 },
			wantErr: true,
			errMsg:  "concurrency must be between",
		},
		{
			name:    "negative memory cache",
			modify:  func(c *Config) { c.Cache.MemoryMB = -1 },
			wantErr: true,
			errMsg:  "memory_mb",
		},
		{
			name:    "compression level out of range",
			modify:  func(c *Config) { c.Cache.CompressionLevel = 23 },
			wantErr: true,
			errMsg:  "compression_level",
		},
		{
			name:    "unknown audio kind",
			modify:  func(c *Config) { c.Audio.Kind = "alsa" },
			wantErr: true,
			errMsg:  "unknown audio kind",
		},
		{
			name:    "negative audio buffer",
			modify:  func(c *Config) { c.Audio.Buffer = -time.Second },
			wantErr: true,
			errMsg:  "buffer cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.errMsg)
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("VOICESTUDIO_ENGINE", "mock")
	t.Setenv("VOICESTUDIO_SPEED", "1.25")
	t.Setenv("VOICESTUDIO_TIMEOUT", "30s")
	t.Setenv("VOICESTUDIO_CACHE_DISK_MB", "0")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Engine != "mock" {
		t.Errorf("Engine = %q, want mock", cfg.Engine)
	}
	if cfg.Speed != 1.25 {
		t.Errorf("Speed = %v, want 1.25", cfg.Speed)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Cache.DiskMB != 0 {
		t.Errorf("Cache.DiskMB = %d, want 0", cfg.Cache.DiskMB)
	}
	if cfg.Cache.MemoryMB != 64 {
		t.Errorf("Cache.MemoryMB = %d, want default 64", cfg.Cache.MemoryMB)
	}
}

func TestLoadAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		gemini string
		own    string
		want   string
	}{
		{name: "none"},
		{name: "gemini variable", gemini: "g-key", want: "g-key"},
		{name: "own variable", own: "v-key", want: "v-key"},
		{name: "own variable wins", gemini: "g-key", own: "v-key", want: "v-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GEMINI_API_KEY", tt.gemini)
			t.Setenv("VOICESTUDIO_API_KEY", tt.own)

			cfg, err := Load(nil)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.APIKey != tt.want {
				t.Errorf("APIKey = %q, want %q", cfg.APIKey, tt.want)
			}
		})
	}
}

func TestLoadViperOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("VOICESTUDIO_SPEED", "1.5")

	v := viper.New()
	v.Set("speed", 0.75)
	v.Set("voice", "vn-female-saigon")
	v.Set("cache.memory_mb", 8)
	v.Set("cache.ttl_days", 1)
	v.Set("audio.kind", "mock")
	v.Set("timeout", "45s")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Speed != 0.75 {
		t.Errorf("Speed = %v, want viper value 0.75", cfg.Speed)
	}
	if cfg.Voice != "vn-female-saigon" {
		t.Errorf("Voice = %q", cfg.Voice)
	}
	if cfg.Cache.MemoryMB != 8 || cfg.Cache.TTLDays != 1 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}

	opts, err := cfg.ToAudioOptions()
	if err != nil {
		t.Fatalf("ToAudioOptions failed: %v", err)
	}
	if opts.Kind != audio.KindMock {
		t.Errorf("audio kind = %v, want mock", opts.Kind)
	}
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	v := viper.New()
	v.Set("speed", 3.0)

	if _, err := Load(v); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestToCacheConfig(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = t.TempDir()

	cc, err := cfg.ToCacheConfig()
	if err != nil {
		t.Fatalf("ToCacheConfig failed: %v", err)
	}
	if cc.MemoryCapacity != 64*1024*1024 {
		t.Errorf("MemoryCapacity = %d", cc.MemoryCapacity)
	}
	if cc.DiskPath != cfg.Cache.Dir {
		t.Errorf("DiskPath = %q, want %q", cc.DiskPath, cfg.Cache.Dir)
	}
	if cc.TTL != 7*24*time.Hour {
		t.Errorf("TTL = %v", cc.TTL)
	}

	cfg.Cache.Dir = ""
	cc, err = cfg.ToCacheConfig()
	if err != nil {
		t.Fatalf("ToCacheConfig failed: %v", err)
	}
	if filepath.Base(cc.DiskPath) != "cache" {
		t.Errorf("default DiskPath = %q", cc.DiskPath)
	}
}

func TestExpandPath(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VOICESTUDIO_TEST_DIR", "out")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/x", "/tmp/x"},
		{"~/voices", filepath.Join(home, "voices")},
		{"$VOICESTUDIO_TEST_DIR/a", "out/a"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
