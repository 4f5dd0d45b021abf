package speech

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Sample is the record of one synthesis call.
type Sample struct {
	Engine     string
	TextLength int // runes
	Start      time.Time
	Duration   time.Duration
	AudioBytes int // length of the base64 payload
	CacheHit   bool
	Err        error
}

// Metrics records synthesis samples and logs each one. The zero value is
// not usable; create one with NewMetrics.
type Metrics struct {
	logger *log.Logger

	mu      sync.Mutex
	samples []Sample
}

// NewMetrics returns a recorder that logs through logger, or through the
// default logger when logger is nil.
func NewMetrics(logger *log.Logger) *Metrics {
	if logger == nil {
		logger = log.Default()
	}
	return &Metrics{logger: logger.WithPrefix("speech")}
}

// Start begins a sample for the given engine and text.
func (m *Metrics) Start(engine, text string) *Sample {
	s := &Sample{
		Engine:     engine,
		TextLength: len([]rune(text)),
		Start:      time.Now(),
	}
	if m != nil {
		m.logger.Debug("Synthesis started", "engine", engine, "textLength", s.TextLength)
	}
	return s
}

// Finish completes s and stores it. A nil Metrics discards the sample.
func (m *Metrics) Finish(s *Sample, audioBytes int, cacheHit bool, err error) {
	s.Duration = time.Since(s.Start)
	s.AudioBytes = audioBytes
	s.CacheHit = cacheHit
	s.Err = err

	if m == nil {
		return
	}

	m.mu.Lock()
	m.samples = append(m.samples, *s)
	m.mu.Unlock()

	if err != nil {
		m.logger.Error("Synthesis failed",
			"engine", s.Engine,
			"duration", s.Duration,
			"error", err)
		return
	}
	m.logger.Info("Synthesis completed",
		"engine", s.Engine,
		"textLength", s.TextLength,
		"audioBytes", s.AudioBytes,
		"duration", s.Duration,
		"cacheHit", s.CacheHit,
		"throughput", throughput(s.AudioBytes, s.Duration))
}

// Samples returns a copy of the recorded samples.
func (m *Metrics) Samples() []Sample {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.samples...)
}

// Summary formats aggregate statistics over all samples.
func (m *Metrics) Summary() string {
	samples := m.Samples()
	if len(samples) == 0 {
		return "No synthesis metrics available"
	}

	var total time.Duration
	var bytes, hits, failures int
	for _, s := range samples {
		total += s.Duration
		bytes += s.AudioBytes
		if s.CacheHit {
			hits++
		}
		if s.Err != nil {
			failures++
		}
	}

	return fmt.Sprintf(
		"Synthesis Stats:\n"+
			"  Total: %d\n"+
			"  Avg Duration: %v\n"+
			"  Total Bytes: %d\n"+
			"  Cache Hit Rate: %.1f%%\n"+
			"  Errors: %d",
		len(samples),
		total/time.Duration(len(samples)),
		bytes,
		float64(hits)/float64(len(samples))*100,
		failures)
}

func throughput(bytes int, d time.Duration) string {
	if d == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f bytes/sec", float64(bytes)/d.Seconds())
}
