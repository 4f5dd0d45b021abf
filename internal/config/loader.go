package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Load reads defaults and overrides from the environment, then applies
// any value set in v (config file or changed flags). The result is
// validated and its paths expanded.
func Load(v *viper.Viper) (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("error parsing environment: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if v != nil {
		overlay(&cfg, v)
	}

	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	cfg.Cache.Dir = ExpandPath(cfg.Cache.Dir)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func overlay(cfg *Config, v *viper.Viper) {
	// Speech service
	if v.IsSet("engine") {
		cfg.Engine = v.GetString("engine")
	}
	if v.IsSet("model") {
		cfg.Model = v.GetString("model")
	}
	if v.IsSet("api_key") && v.GetString("api_key") != "" {
		cfg.APIKey = v.GetString("api_key")
	}
	if v.IsSet("language") {
		cfg.Language = v.GetString("language")
	}
	if v.IsSet("requests_per_minute") {
		cfg.RequestsPerMinute = v.GetInt("requests_per_minute")
	}
	if v.IsSet("timeout") {
		cfg.Timeout = v.GetDuration("timeout")
	}

	// Voice defaults
	if v.IsSet("voice") {
		cfg.Voice = v.GetString("voice")
	}
	if v.IsSet("style") {
		cfg.Style = v.GetString("style")
	}
	if v.IsSet("speed") {
		cfg.Speed = v.GetFloat64("speed")
	}

	// Conversion
	if v.IsSet("sample_rate") {
		cfg.SampleRate = v.GetInt("sample_rate")
	}
	if v.IsSet("chunk_runes") {
		cfg.ChunkRunes = v.GetInt("chunk_runes")
	}
	if v.IsSet("concurrency") {
		cfg.Concurrency = v.GetInt("concurrency")
	}
	if v.IsSet("output_dir") {
		cfg.OutputDir = v.GetString("output_dir")
	}

	// Cache
	if v.IsSet("cache.dir") {
		cfg.Cache.Dir = v.GetString("cache.dir")
	}
	if v.IsSet("cache.memory_mb") {
		cfg.Cache.MemoryMB = v.GetInt("cache.memory_mb")
	}
	if v.IsSet("cache.disk_mb") {
		cfg.Cache.DiskMB = v.GetInt("cache.disk_mb")
	}
	if v.IsSet("cache.ttl_days") {
		cfg.Cache.TTLDays = v.GetInt("cache.ttl_days")
	}
	if v.IsSet("cache.compression_level") {
		cfg.Cache.CompressionLevel = v.GetInt("cache.compression_level")
	}

	// Audio
	if v.IsSet("audio.kind") {
		cfg.Audio.Kind = v.GetString("audio.kind")
	}
	if v.IsSet("audio.buffer") {
		cfg.Audio.Buffer = v.GetDuration("audio.buffer")
	}
}
