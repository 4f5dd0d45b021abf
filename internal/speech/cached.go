package speech

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/mwg-labs/voicestudio/internal/cache"
)

// PayloadCache stores synthesized payloads by key. *cache.Manager
// implements it.
type PayloadCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// CachedSynthesizer serves repeated requests from a PayloadCache and
// collapses concurrent identical requests into one upstream call.
type CachedSynthesizer struct {
	next      Synthesizer
	cache     PayloadCache
	namespace string
	metrics   *Metrics

	group singleflight.Group
}

// NewCachedSynthesizer wraps next. namespace separates payloads produced by
// different models or languages and becomes part of every key.
func NewCachedSynthesizer(next Synthesizer, c PayloadCache, namespace string, metrics *Metrics) *CachedSynthesizer {
	return &CachedSynthesizer{
		next:      next,
		cache:     c,
		namespace: namespace,
		metrics:   metrics,
	}
}

// CacheKey derives the cache key for a request.
func (s *CachedSynthesizer) CacheKey(req Request) string {
	text := norm.NFC.String(strings.TrimSpace(req.Text))
	return cache.Key(s.namespace, text, req.Voice.ID, req.Style.ID)
}

// Synthesize implements Synthesizer.
func (s *CachedSynthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	key := s.CacheKey(req)

	if data, ok := s.cache.Get(key); ok {
		sample := s.metrics.Start("cache", req.Text)
		s.metrics.Finish(sample, len(data), true, nil)
		return string(data), nil
	}

	// The upstream call is shared, so one caller giving up must not cancel
	// it for the others. Each caller still stops waiting when its own ctx
	// is done.
	upstream := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		payload, err := s.next.Synthesize(upstream, req)
		if err != nil {
			return "", err
		}
		if err := s.cache.Put(key, []byte(payload)); err != nil {
			log.Warn("Failed to cache payload", "error", err)
		}
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Shared {
			log.Debug("Shared in-flight synthesis", "voice", req.Voice.ID, "style", req.Style.ID)
		}
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(string), nil
	}
}
