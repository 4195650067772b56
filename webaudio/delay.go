package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/delay"
	"github.com/cwbudde/algo-webaudio/webaudio/automation"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// DefaultMaxDelayTime is used when DelayOptions.MaxDelayTime is zero.
const DefaultMaxDelayTime = 1.0

// maxDelayLimit is the exclusive upper bound for MaxDelayTime in seconds.
const maxDelayLimit = 180.0

// DelayOptions configures a DelayNode.
type DelayOptions struct {
	NodeOptions
	// MaxDelayTime in seconds, in (0, 180). Zero selects 1 s.
	MaxDelayTime float64
}

// DelayNode delays its input by delayTime seconds, truncated to whole
// frames. On a cycle its delay is at least one render quantum.
type DelayNode struct {
	*AudioNode
	DelayTime *AudioParam
}

type delayKernel struct {
	ring      *delay.Ring
	delayTime *AudioParam
	inCycle   bool
}

// CreateDelay adds a DelayNode.
func (c *BaseAudioContext) CreateDelay(opts DelayOptions) (*DelayNode, error) {
	maxDelay := opts.MaxDelayTime
	if maxDelay == 0 {
		maxDelay = DefaultMaxDelayTime
	}
	if !(maxDelay > 0 && maxDelay < maxDelayLimit) {
		return nil, exception.NotSupported("DelayNode: max delay time %v outside (0, %v)", maxDelay, maxDelayLimit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ring, err := delay.NewRing(maxDelay*c.sampleRate, c.quantumSize, 1)
	if err != nil {
		return nil, exception.Wrap(exception.ErrNotSupported, err)
	}
	n := c.newNode("DelayNode", 1, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	d := &DelayNode{AudioNode: n}
	d.DelayTime = n.newParam("delayTime", 0, 0, maxDelay, ARate)
	n.kernel = &delayKernel{ring: ring, delayTime: d.DelayTime}
	c.register(n)
	return d, nil
}

// process renders a delay that is not on a cycle: the current quantum is
// written first so that delays shorter than a quantum read it back.
func (k *delayKernel) process(r *renderInfo, inputs, outputs []*buffer.Quantum) {
	k.write(inputs[0])
	k.read(r, outputs[0])
}

func (k *delayKernel) write(in *buffer.Quantum) {
	k.ring.Write(in)
}

// read fills out from the ring. Before the write of this quantum the
// cursor sits at the quantum start, after it one quantum later.
func (k *delayKernel) read(r *renderInfo, out *buffer.Quantum) {
	out.SetChannels(k.ring.Channels())

	base := k.ring.Written()
	minFrames := 0.0
	if k.inCycle {
		minFrames = float64(r.size)
	} else {
		base -= int64(r.size)
	}

	delays := k.delayTime.values[:r.size]
	for i, d := range delays {
		frames := max(math.Floor(d*r.sampleRate+automation.FrameEpsilon), minFrames)
		pos := base + int64(i) - int64(frames)
		for ch := range out.Channels() {
			out.Channel(ch)[i] = k.ring.Read(ch, pos)
		}
	}
}
