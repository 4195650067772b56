package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/webaudio/automation"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// scheduledSource is the start/stop state shared by source nodes. The
// started and stopped flags belong to the control side; the times and the
// ended flag are only touched by the renderer, which learns about start
// and stop through the message queue.
type scheduledSource struct {
	node *AudioNode

	started bool
	onEnded func()

	scheduled bool
	startTime float64
	stopTime  float64
	hasStop   bool
	ended     bool
}

func newScheduledSource(n *AudioNode) *scheduledSource {
	return &scheduledSource{node: n}
}

// start validates a start request and posts it. apply, if not nil, runs
// on the render side together with the start.
func (s *scheduledSource) start(when float64, apply func()) error {
	ctx := s.node.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if !(when >= 0) || math.IsInf(when, 1) {
		return exception.Range("%s: start time %v must be a finite non-negative number", s.node.kind, when)
	}
	if s.started {
		return exception.InvalidState("%s: start called more than once", s.node.kind)
	}
	s.started = true
	ctx.post(func() {
		s.scheduled = true
		s.startTime = when
		if apply != nil {
			apply()
		}
	})
	return nil
}

// Stop schedules the end of playback. A later call replaces the stop time.
func (s *scheduledSource) Stop(when float64) error {
	ctx := s.node.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if !(when >= 0) || math.IsInf(when, 1) {
		return exception.Range("%s: stop time %v must be a finite non-negative number", s.node.kind, when)
	}
	if !s.started {
		return exception.InvalidState("%s: stop called before start", s.node.kind)
	}
	ctx.post(func() {
		s.stopTime = when
		s.hasStop = true
	})
	return nil
}

// SetOnEnded registers fn to run on the context event loop when playback
// ends.
func (s *scheduledSource) SetOnEnded(fn func()) {
	s.node.ctx.mu.Lock()
	defer s.node.ctx.mu.Unlock()
	s.onEnded = fn
}

// window returns the frame range [lo, hi) of the quantum in which the
// source plays. It marks the source ended once the stop time falls
// inside or before the quantum.
func (s *scheduledSource) window(r *renderInfo) (lo, hi int) {
	if !s.scheduled || s.ended {
		return 0, 0
	}

	lo = clampFrame(toFrame(s.startTime, r.sampleRate)-r.frame, r.size)
	hi = r.size
	if s.hasStop {
		stop := toFrame(s.stopTime, r.sampleRate)
		hi = clampFrame(stop-r.frame, r.size)
		if stop <= r.frame+int64(r.size) {
			s.finish(r)
		}
	}
	return lo, max(lo, hi)
}

// finish marks playback ended and posts the OnEnded callback once.
func (s *scheduledSource) finish(r *renderInfo) {
	if s.ended {
		return
	}
	s.ended = true
	r.events.Post(s.onEnded)
}

func toFrame(t, sampleRate float64) int64 {
	return automation.Frame(t, sampleRate)
}

func clampFrame(f int64, size int) int {
	return int(min(max(f, 0), int64(size)))
}
