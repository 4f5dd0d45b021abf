//go:build !nocgo

package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process and has no Close. The device
// is opened on first use and handed to every deviceContext after that;
// each deviceContext still has its own lifetime.
var device struct {
	mu         sync.Mutex
	ctx        *oto.Context
	sampleRate int
}

func openDevice(opts Options) (*oto.Context, error) {
	device.mu.Lock()
	defer device.mu.Unlock()

	if device.ctx != nil {
		if device.sampleRate != opts.SampleRate {
			return nil, fmt.Errorf("%w: device already open at %d Hz", ErrUnavailable, device.sampleRate)
		}
		return device.ctx, nil
	}

	options := &oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   opts.BufferSize,
	}
	log.Debug("Initializing audio device",
		"sample_rate", options.SampleRate,
		"buffer_size", options.BufferSize)

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("%w: initialization timeout", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	device.ctx = ctx
	device.sampleRate = opts.SampleRate
	return ctx, nil
}

// deviceContext is a Context backed by the host audio device.
type deviceContext struct {
	ctx        *oto.Context
	sampleRate int

	mu      sync.Mutex
	players map[*devicePlayer]struct{}
	closed  bool
}

func newDeviceContext(opts Options) (Context, error) {
	ctx, err := openDevice(opts)
	if err != nil {
		return nil, err
	}
	return &deviceContext{
		ctx:        ctx,
		sampleRate: opts.SampleRate,
		players:    make(map[*devicePlayer]struct{}),
	}, nil
}

func (c *deviceContext) NewPlayer(r io.Reader) (Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrContextClosed
	}
	p := &devicePlayer{Player: c.ctx.NewPlayer(r), owner: c}
	c.players[p] = struct{}{}
	return p, nil
}

func (c *deviceContext) SampleRate() int { return c.sampleRate }

// Close stops and releases every player created by this context.
func (c *deviceContext) Close() error {
	c.mu.Lock()
	players := c.players
	c.players = nil
	c.closed = true
	c.mu.Unlock()

	for p := range players {
		p.Pause()
		_ = p.Player.Close()
	}
	return nil
}

type devicePlayer struct {
	*oto.Player
	owner *deviceContext
}

func (p *devicePlayer) Close() error {
	p.owner.mu.Lock()
	delete(p.owner.players, p)
	p.owner.mu.Unlock()
	return p.Player.Close()
}
