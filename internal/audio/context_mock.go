package audio

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// MockContext is a Context that consumes audio without a device. Players
// report IsPlaying for as long as the stream would take to play, scaled by
// TimeScale.
type MockContext struct {
	sampleRate int

	// TimeScale multiplies simulated playback time. 1 is real time, 0
	// finishes as soon as the stream is drained.
	TimeScale float64

	mu      sync.Mutex
	players []*MockPlayer
	closed  bool
}

// NewMockContext creates a mock context playing in real time.
func NewMockContext(sampleRate int) *MockContext {
	return &MockContext{sampleRate: sampleRate, TimeScale: 1}
}

// NewPlayer implements Context.
func (c *MockContext) NewPlayer(r io.Reader) (Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrContextClosed
	}
	p := &MockPlayer{
		reader:     r,
		sampleRate: c.sampleRate,
		timeScale:  c.TimeScale,
		volume:     1,
		done:       make(chan struct{}),
	}
	c.players = append(c.players, p)
	return p, nil
}

// SampleRate implements Context.
func (c *MockContext) SampleRate() int { return c.sampleRate }

// Close closes every player created by the context.
func (c *MockContext) Close() error {
	c.mu.Lock()
	players := c.players
	c.closed = true
	c.mu.Unlock()

	for _, p := range players {
		_ = p.Close()
	}
	log.Debug("Mock audio context closed", "players", len(players))
	return nil
}

// Players returns every player created so far.
func (c *MockContext) Players() []*MockPlayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*MockPlayer(nil), c.players...)
}

// MockPlayer drains its stream on Play and records what it received.
type MockPlayer struct {
	reader     io.Reader
	sampleRate int
	timeScale  float64

	mu      sync.Mutex
	data    []byte
	volume  float64
	started bool
	done    chan struct{}

	playing atomic.Bool
	paused  atomic.Bool
	closed  atomic.Bool
}

// Play starts the simulated playback, or resumes it after Pause.
func (p *MockPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		return
	}
	p.paused.Store(false)
	if p.started {
		return
	}
	p.started = true
	p.playing.Store(true)
	go p.run()
}

func (p *MockPlayer) run() {
	defer close(p.done)
	defer p.playing.Store(false)

	data, err := io.ReadAll(p.reader)
	if err != nil {
		log.Debug("Mock player read failed", "error", err)
	}
	p.mu.Lock()
	p.data = data
	p.mu.Unlock()

	frames := len(data) / 4
	remaining := time.Duration(float64(frames) / float64(p.sampleRate) * p.timeScale * float64(time.Second))

	const tick = 5 * time.Millisecond
	for remaining > 0 {
		if p.closed.Load() {
			return
		}
		time.Sleep(tick)
		if !p.paused.Load() {
			remaining -= tick
		}
	}
}

// Pause implements Player.
func (p *MockPlayer) Pause() { p.paused.Store(true) }

// IsPlaying implements Player.
func (p *MockPlayer) IsPlaying() bool {
	return p.playing.Load() && !p.paused.Load()
}

// SetVolume implements Player.
func (p *MockPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
}

// Close implements Player.
func (p *MockPlayer) Close() error {
	p.closed.Store(true)
	return nil
}

// Wait blocks until the simulated playback has ended.
func (p *MockPlayer) Wait() {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.done
	}
}

// Data returns the bytes the player consumed. Only complete after Wait.
func (p *MockPlayer) Data() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// Closed reports whether Close was called.
func (p *MockPlayer) Closed() bool { return p.closed.Load() }
