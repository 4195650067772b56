package webaudio

import (
	"sync"

	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// OfflineAudioContext renders a fixed number of frames as fast as
// possible into an AudioBuffer.
type OfflineAudioContext struct {
	*BaseAudioContext

	length  int
	started bool
	wg      sync.WaitGroup
}

// NewOfflineAudioContext returns a context rendering length frames of
// channels channels at sampleRate. Invalid shapes fail with
// NotSupportedError.
func NewOfflineAudioContext(channels, length int, sampleRate float64, opts ...ContextOption) (*OfflineAudioContext, error) {
	if err := validateBufferShape(channels, length, sampleRate); err != nil {
		return nil, err
	}
	opts = append(opts, WithChannels(channels), WithSampleRate(sampleRate))
	base, err := newBaseContext(applyContextOptions(opts))
	if err != nil {
		return nil, err
	}
	return &OfflineAudioContext{BaseAudioContext: base, length: length}, nil
}

// Length returns the number of frames to render.
func (c *OfflineAudioContext) Length() int {
	return c.length
}

// StartRendering renders the graph on a background goroutine. The future
// resolves with the rendered buffer and the context closes. A second call
// returns a future rejected with InvalidStateError.
func (c *OfflineAudioContext) StartRendering() *Future[*AudioBuffer] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.state == Closed {
		return rejectedFuture[*AudioBuffer](c.events, exception.InvalidState("offline rendering already started"))
	}
	c.started = true
	c.state = Running

	out, err := NewAudioBuffer(AudioBufferOptions{
		NumberOfChannels: c.channels,
		Length:           c.length,
		SampleRate:       c.sampleRate,
	})
	if err != nil {
		return rejectedFuture[*AudioBuffer](c.events, err)
	}

	f := newFuture[*AudioBuffer](c.events)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.renderAll(out)
		f.resolve(out)
	}()
	return f
}

func (c *OfflineAudioContext) renderAll(out *AudioBuffer) {
	c.mu.Lock()
	c.setRenderState(Running)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		pos := int(c.frame)
		if pos >= c.length {
			c.state = Closed
			c.setRenderState(Closed)
			c.mu.Unlock()
			return
		}
		q := c.render()
		n := min(c.quantumSize, c.length-pos)
		for ch := range out.channels {
			copy(out.channels[ch][pos:pos+n], q.Channel(ch)[:n])
		}
		c.mu.Unlock()
	}
}

// Close waits for a running render to finish and closes the context.
func (c *OfflineAudioContext) Close() {
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Closed
	c.setRenderState(Closed)
}
