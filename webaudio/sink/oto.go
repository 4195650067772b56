// Package sink connects a realtime AudioContext to an audio device.
package sink

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-webaudio/webaudio"
)

var _ webaudio.Sink = (*Oto)(nil)

// ErrStarted is returned by Start when a stream is already playing.
var ErrStarted = errors.New("sink: already started")

// Config describes the device stream. BufferDuration of zero lets the
// driver choose.
type Config struct {
	SampleRate     int
	Channels       int
	BufferDuration time.Duration
}

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sink: invalid sample rate %d", c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("sink: unsupported channel count %d", c.Channels)
	}
	if c.BufferDuration < 0 {
		return fmt.Errorf("sink: negative buffer duration %v", c.BufferDuration)
	}
	return nil
}

// Oto plays interleaved little-endian float32 frames through
// ebitengine/oto. Only one Oto may be opened per process.
type Oto struct {
	ctx *oto.Context

	mu     sync.Mutex
	player *oto.Player
}

// NewOto opens the default output device and waits until it is ready.
func NewOto(cfg Config) (*Oto, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.BufferDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("sink: open device: %w", err)
	}
	<-ready
	return &Oto{ctx: ctx}, nil
}

// Start pulls audio from r until r returns an error or Close is called.
func (o *Oto) Start(r io.Reader) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return ErrStarted
	}
	o.player = o.ctx.NewPlayer(r)
	o.player.Play()
	return o.ctx.Err()
}

// Err reports a failure of the playing stream.
func (o *Oto) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return o.ctx.Err()
	}
	return o.player.Err()
}

// Close stops playback. The device itself stays open for the process.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}
