package webaudio

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

const bytesPerSample = 4

// AudioContext renders on demand for a device. It starts suspended; a
// sink attached with WithSink starts on the first Resume. Without a sink
// the caller pulls audio with Read, RenderQuantum or InterleavedQuantum.
//
// While suspended the context yields silence and its clock stands still.
type AudioContext struct {
	*BaseAudioContext

	sink        Sink
	sinkStarted bool

	silence *buffer.Quantum
	frames  []float32
	pending []float32
}

// NewAudioContext returns a suspended realtime context.
func NewAudioContext(opts ...ContextOption) (*AudioContext, error) {
	cfg := applyContextOptions(opts)
	base, err := newBaseContext(cfg)
	if err != nil {
		return nil, err
	}
	return &AudioContext{
		BaseAudioContext: base,
		sink:             cfg.sink,
		silence:          buffer.New(base.channels, base.quantumSize),
		frames:           make([]float32, base.channels*base.quantumSize),
	}, nil
}

// Resume requests the running state. The future resolves when the
// renderer applies the transition. Resuming a closed context rejects
// with InvalidStateError.
func (c *AudioContext) Resume() *Future[struct{}] {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return rejectedFuture[struct{}](c.events, exception.InvalidState("cannot resume a closed context"))
	}
	c.state = Running
	f := newFuture[struct{}](c.events)
	c.post(func() {
		c.setRenderState(Running)
		f.resolve(struct{}{})
	})
	startSink := c.sink != nil && !c.sinkStarted
	c.sinkStarted = c.sinkStarted || startSink
	c.mu.Unlock()

	// The sink reads from its own goroutine, which takes c.mu.
	if startSink {
		if err := c.sink.Start(c); err != nil {
			c.log.Errorf("starting sink: %v", err)
			f.reject(err)
		}
	}
	return f
}

// Suspend requests the suspended state. Suspending a closed context
// rejects with InvalidStateError.
func (c *AudioContext) Suspend() *Future[struct{}] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return rejectedFuture[struct{}](c.events, exception.InvalidState("cannot suspend a closed context"))
	}
	c.state = Suspended
	f := newFuture[struct{}](c.events)
	c.post(func() {
		c.setRenderState(Suspended)
		f.resolve(struct{}{})
	})
	return f
}

// Close stops the sink and closes the context. Pending control messages
// are applied before the state changes. Closing twice rejects with
// InvalidStateError.
func (c *AudioContext) Close() *Future[struct{}] {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return rejectedFuture[struct{}](c.events, exception.InvalidState("context already closed"))
	}
	c.state = Closed
	sink := c.sink
	if !c.sinkStarted {
		sink = nil
	}
	c.mu.Unlock()

	f := newFuture[struct{}](c.events)
	if sink != nil {
		if err := sink.Close(); err != nil {
			c.log.Errorf("closing sink: %v", err)
		}
	}

	c.mu.Lock()
	c.drain()
	c.setRenderState(Closed)
	c.pending = nil
	c.mu.Unlock()
	f.resolve(struct{}{})
	return f
}

// next produces one quantum: a rendered one while running, silence
// otherwise. Callers hold c.mu.
func (c *AudioContext) next() *buffer.Quantum {
	c.drain()
	if c.renderState == Running {
		return c.render()
	}
	c.silence.Zero()
	return c.silence
}

// RenderQuantum renders one quantum and returns the destination buffer.
// The buffer is reused by the next call.
func (c *AudioContext) RenderQuantum() *buffer.Quantum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next()
}

// InterleavedQuantum renders one quantum into dst as interleaved float32
// frames and returns the number of values written. dst should hold
// QuantumSize·channels values.
func (c *AudioContext) InterleavedQuantum(dst []float32) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next().Interleave(dst)
}

// Read fills p with interleaved float32 little-endian samples, rendering
// as many quanta as needed. Frames left over from the last quantum are
// kept for the next call. Read returns io.EOF once the context is closed.
func (c *AudioContext) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.renderState == Closed {
		return 0, io.EOF
	}

	n := 0
	for len(p)-n >= bytesPerSample {
		if len(c.pending) == 0 {
			w := c.next().Interleave(c.frames)
			c.pending = c.frames[:w]
		}
		for len(c.pending) > 0 && len(p)-n >= bytesPerSample {
			binary.LittleEndian.PutUint32(p[n:], math.Float32bits(c.pending[0]))
			c.pending = c.pending[1:]
			n += bytesPerSample
		}
	}
	return n, nil
}
