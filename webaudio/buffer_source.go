package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// AudioBufferSourceOptions configures an AudioBufferSourceNode. Loop
// points are in seconds; an empty or invalid loop region loops the whole
// buffer.
type AudioBufferSourceOptions struct {
	NodeOptions
	Buffer    *AudioBuffer
	Loop      bool
	LoopStart float64
	LoopEnd   float64
}

// AudioBufferSourceNode plays an AudioBuffer at
// playbackRate·2^(detune/1200) with linear interpolation. Both params are
// k-rate and cannot be switched to a-rate.
type AudioBufferSourceNode struct {
	*AudioNode
	*scheduledSource

	PlaybackRate *AudioParam
	Detune       *AudioParam

	kernel *bufferSourceKernel
}

type bufferSourceKernel struct {
	src          *scheduledSource
	playbackRate *AudioParam
	detune       *AudioParam

	buffer    *AudioBuffer
	loop      bool
	loopStart float64
	loopEnd   float64

	// Set on the render side by the start message.
	offset      float64
	duration    float64
	hasDuration bool

	begun    bool
	playhead float64 // buffer frames
	played   float64 // buffer frames advanced since start
}

// CreateBufferSource adds an AudioBufferSourceNode.
func (c *BaseAudioContext) CreateBufferSource(opts AudioBufferSourceOptions) (*AudioBufferSourceNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("AudioBufferSourceNode", 0, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	s := &AudioBufferSourceNode{AudioNode: n, scheduledSource: newScheduledSource(n)}
	s.PlaybackRate = n.newParam("playbackRate", 1, -mostPositive, mostPositive, KRate)
	s.PlaybackRate.fixedRate = true
	s.Detune = n.newParam("detune", 0, -mostPositive, mostPositive, KRate)
	s.Detune.fixedRate = true
	s.kernel = &bufferSourceKernel{
		src:          s.scheduledSource,
		playbackRate: s.PlaybackRate,
		detune:       s.Detune,
		buffer:       opts.Buffer,
		loop:         opts.Loop,
		loopStart:    opts.LoopStart,
		loopEnd:      opts.LoopEnd,
	}
	n.kernel = s.kernel
	c.register(n)
	return s, nil
}

// Buffer returns the buffer being played, or nil.
func (s *AudioBufferSourceNode) Buffer() *AudioBuffer {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	return s.kernel.buffer
}

// SetBuffer assigns the buffer. Once a buffer is set, assigning another
// one fails with InvalidStateError.
func (s *AudioBufferSourceNode) SetBuffer(b *AudioBuffer) error {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	if b != nil && s.kernel.buffer != nil {
		return exception.InvalidState("AudioBufferSourceNode: buffer can only be set once")
	}
	s.kernel.buffer = b
	return nil
}

// SetLoop enables or disables looping.
func (s *AudioBufferSourceNode) SetLoop(loop bool) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.kernel.loop = loop
}

// SetLoopPoints sets the loop region in seconds.
func (s *AudioBufferSourceNode) SetLoopPoints(start, end float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.kernel.loopStart, s.kernel.loopEnd = start, end
}

// Start plays the buffer from the beginning at context time when.
func (s *AudioBufferSourceNode) Start(when float64) error {
	return s.StartAt(when, 0)
}

// StartAt plays the buffer from offset seconds at context time when.
func (s *AudioBufferSourceNode) StartAt(when, offset float64) error {
	return s.startWith(when, offset, 0, false)
}

// StartFor plays duration seconds of buffer time from offset at context
// time when.
func (s *AudioBufferSourceNode) StartFor(when, offset, duration float64) error {
	return s.startWith(when, offset, duration, true)
}

func (s *AudioBufferSourceNode) startWith(when, offset, duration float64, hasDuration bool) error {
	if !(offset >= 0) || math.IsInf(offset, 1) {
		return exception.Range("AudioBufferSourceNode: offset %v must be a finite non-negative number", offset)
	}
	if hasDuration && (!(duration >= 0) || math.IsInf(duration, 1)) {
		return exception.Range("AudioBufferSourceNode: duration %v must be a finite non-negative number", duration)
	}
	k := s.kernel
	return s.start(when, func() {
		k.offset = offset
		k.duration = duration
		k.hasDuration = hasDuration
	})
}

func (k *bufferSourceKernel) process(r *renderInfo, _, outputs []*buffer.Quantum) {
	out := outputs[0]
	b := k.buffer
	if b == nil {
		out.SetChannels(1)
	} else {
		out.SetChannels(b.NumberOfChannels())
	}
	out.Zero()

	lo, hi := k.src.window(r)
	if b == nil || lo >= hi {
		return
	}

	bufRate := b.SampleRate()
	if !k.begun {
		k.begun = true
		k.playhead = min(k.offset*bufRate, float64(b.Length()))
	}

	rate := k.playbackRate.values[0] * core.CentsToRatio(k.detune.values[0]) * bufRate / r.sampleRate
	loopStart, loopEnd := k.loopRegion()
	limit := math.Inf(1)
	if k.hasDuration {
		limit = k.duration * bufRate
	}

	for i := lo; i < hi; i++ {
		if k.played >= limit {
			k.src.finish(r)
			return
		}
		if k.loop {
			k.playhead = wrapLoop(k.playhead, rate, loopStart, loopEnd)
		} else if k.playhead >= float64(b.Length()) || k.playhead < 0 {
			k.src.finish(r)
			return
		}

		for ch := range b.NumberOfChannels() {
			out.Channel(ch)[i] = k.interpolate(ch, loopStart, loopEnd)
		}
		k.playhead += rate
		k.played += math.Abs(rate)
	}
}

// loopRegion returns the loop bounds in buffer frames.
func (k *bufferSourceKernel) loopRegion() (float64, float64) {
	length := float64(k.buffer.Length())
	rate := k.buffer.SampleRate()
	start, end := k.loopStart*rate, min(k.loopEnd*rate, length)
	if k.loopStart >= 0 && k.loopEnd > 0 && start < end {
		return start, end
	}
	return 0, length
}

// wrapLoop moves a playhead that left the loop region back into it.
// A playhead before the region moving forward is left alone so that an
// offset ahead of the loop plays into it.
func wrapLoop(pos, rate, start, end float64) float64 {
	span := end - start
	switch {
	case pos >= end:
		return start + math.Mod(pos-start, span)
	case pos < start && rate < 0:
		return end - math.Mod(start-pos, span)
	}
	return pos
}

// interpolate reads channel ch at the playhead, wrapping the second tap
// to the loop start at the loop end.
func (k *bufferSourceKernel) interpolate(ch int, loopStart, loopEnd float64) float64 {
	i0 := int(math.Floor(k.playhead))
	frac := k.playhead - float64(i0)
	i1 := i0 + 1
	if k.loop && float64(i1) >= loopEnd {
		i1 = int(loopStart)
	}
	x0 := k.buffer.sample(ch, i0)
	if frac == 0 {
		return x0
	}
	return x0*(1-frac) + k.buffer.sample(ch, i1)*frac
}
