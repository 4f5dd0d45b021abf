package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mwg-labs/voicestudio/internal/audio"
	"github.com/mwg-labs/voicestudio/internal/cache"
	"github.com/mwg-labs/voicestudio/internal/config"
	"github.com/mwg-labs/voicestudio/internal/speech"
	"github.com/mwg-labs/voicestudio/internal/studio"
)

// session owns everything one command needs: the engine, the payload
// cache and, when playback is wanted, the audio context. Close releases
// them in reverse order.
type session struct {
	cfg     config.Config
	engine  speech.Engine
	cache   *cache.Manager
	metrics *speech.Metrics
	audio   audio.Context
	studio  *studio.Studio
	voice   speech.Voice
	style   speech.Style
}

func newSession(ctx context.Context, cfg config.Config, withAudio bool) (*session, error) {
	s := &session{
		cfg:     cfg,
		metrics: speech.NewMetrics(log.Default()),
	}

	var err error
	if s.voice, err = speech.FindVoice(cfg.Voice); err != nil {
		return nil, err
	}
	if s.style, err = speech.FindStyle(cfg.Style); err != nil {
		return nil, err
	}

	s.engine, err = newEngine(ctx, cfg, s.metrics)
	if err != nil {
		return nil, err
	}

	cc, err := cfg.ToCacheConfig()
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.cache, err = cache.NewManager(cc)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("unable to open cache: %w", err)
	}

	var playback *audio.Playback
	if withAudio {
		opts, err := cfg.ToAudioOptions()
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.audio, err = audio.NewContext(opts)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("unable to open audio: %w", err)
		}
		playback = audio.NewPlayback(s.audio)
	}

	synth := speech.NewCachedSynthesizer(s.engine, s.cache, cacheNamespace(cfg, s.engine), s.metrics)
	s.studio = studio.New(synth, playback, cfg.ToStudioOptions())

	log.Debug("Session ready",
		"engine", s.engine.Name(),
		"voice", s.voice.ID,
		"style", s.style.ID,
		"audio", withAudio)
	return s, nil
}

func newEngine(ctx context.Context, cfg config.Config, metrics *speech.Metrics) (speech.Engine, error) {
	switch cfg.Engine {
	case "mock":
		return speech.NewMockEngine(), nil
	default:
		e, err := speech.NewGeminiEngine(ctx, cfg.ToGeminiConfig(metrics))
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// cacheNamespace keeps payloads from different engines, models and prompt
// languages apart.
func cacheNamespace(cfg config.Config, e speech.Engine) string {
	if e.Name() == "mock" {
		return "mock"
	}
	return e.Name() + "/" + cfg.Model + "/" + cfg.Language
}

func (s *session) request(body string) studio.Request {
	return studio.Request{Text: body, Voice: s.voice, Style: s.style}
}

func (s *session) Close() error {
	var errs []error
	if s.audio != nil {
		errs = append(errs, s.audio.Close())
	}
	if s.cache != nil {
		for level, st := range s.cache.Stats() {
			log.Debug("Cache stats", "level", level, "stats", st.String())
		}
		errs = append(errs, s.cache.Close())
	}
	if s.engine != nil {
		errs = append(errs, s.engine.Close())
	}
	if samples := s.metrics.Samples(); len(samples) > 0 {
		log.Debug("Synthesis summary", "summary", s.metrics.Summary())
	}
	return errors.Join(errs...)
}
