package webaudio

import (
	"sync"

	"github.com/pion/logging"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/internal/queue"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// BaseAudioContext owns the node arena and renders it. AudioContext and
// OfflineAudioContext embed it and add the rendering loop.
type BaseAudioContext struct {
	mu sync.Mutex

	sampleRate  float64
	quantumSize int
	channels    int
	frame       int64

	// state is what the control side last requested; renderState is
	// what the renderer has applied. They differ until the message
	// carrying the transition is drained.
	state       State
	renderState State

	nodes       []*AudioNode
	destination *AudioDestinationNode
	listener    *AudioListener

	dirty    bool
	schedule []step

	messages *queue.Queue[func()]
	events   *EventLoop
	pool     *buffer.Pool
	log      logging.LeveledLogger
}

func newBaseContext(cfg contextConfig) (*BaseAudioContext, error) {
	p := cfg.processor
	if p.SampleRate < MinSampleRate || p.SampleRate > MaxSampleRate {
		return nil, exception.NotSupported("sample rate %v outside [%v, %v]", p.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if p.BlockSize < 1 {
		return nil, exception.NotSupported("quantum size %d below 1", p.BlockSize)
	}
	if p.Channels < 1 || p.Channels > MaxChannels {
		return nil, exception.NotSupported("channel count %d outside [1, %d]", p.Channels, MaxChannels)
	}

	c := &BaseAudioContext{
		sampleRate:  p.SampleRate,
		quantumSize: p.BlockSize,
		channels:    p.Channels,
		messages:    queue.New[func()](),
		events:      NewEventLoop(),
		pool:        buffer.NewPool(),
		log:         cfg.loggers.NewLogger("webaudio"),
		dirty:       true,
	}
	c.destination = c.newDestination()
	c.listener = c.newListener()
	return c, nil
}

// register adds n to the arena under the next handle.
func (c *BaseAudioContext) register(n *AudioNode) {
	c.nodes = append(c.nodes, n)
	c.dirty = true
}

// SampleRate returns the sample rate in Hz.
func (c *BaseAudioContext) SampleRate() float64 {
	return c.sampleRate
}

// QuantumSize returns the number of frames per render quantum.
func (c *BaseAudioContext) QuantumSize() int {
	return c.quantumSize
}

// CurrentFrame returns the number of frames rendered so far.
func (c *BaseAudioContext) CurrentFrame() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// CurrentTime returns the time in seconds of the next frame to render.
func (c *BaseAudioContext) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime()
}

func (c *BaseAudioContext) currentTime() float64 {
	return float64(c.frame) / c.sampleRate
}

// State returns the control-side state.
func (c *BaseAudioContext) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Destination returns the node whose input is the context output.
func (c *BaseAudioContext) Destination() *AudioDestinationNode {
	return c.destination
}

// Listener returns the spatial listener.
func (c *BaseAudioContext) Listener() *AudioListener {
	return c.listener
}

// Events returns the loop that runs callbacks and future continuations.
func (c *BaseAudioContext) Events() *EventLoop {
	return c.events
}

// ProcessEvents runs every pending callback and returns how many ran.
func (c *BaseAudioContext) ProcessEvents() int {
	return c.events.Poll()
}

// post queues msg for the renderer. It runs under the context lock at the
// top of the next quantum.
func (c *BaseAudioContext) post(msg func()) {
	c.messages.Push(msg)
}

// drain applies the queued control messages. Callers hold c.mu.
func (c *BaseAudioContext) drain() {
	for _, msg := range c.messages.Swap() {
		msg()
	}
}

// setRenderState applies a state transition on the render side.
func (c *BaseAudioContext) setRenderState(s State) {
	if c.renderState == s {
		return
	}
	c.log.Infof("context %s -> %s at frame %d", c.renderState, s, c.frame)
	c.renderState = s
}
