package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/webaudio/automation"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// mostPositive bounds params whose range is unrestricted.
const mostPositive = math.MaxFloat32

// maxDetune is the detune in cents that maps mostPositive onto 1.
var maxDetune = 1200 * math.Log2(mostPositive)

// AudioParam is a scalar of a node that can be automated and driven by
// node outputs. Its value for a quantum is the automation timeline plus
// the mono mix of every connected output, clamped to the nominal range.
type AudioParam struct {
	owner *AudioNode
	name  string

	timeline *automation.Timeline
	minValue float64
	maxValue float64

	rate      AutomationRate
	fixedRate bool

	value   float64
	values  []float64
	sources []source
}

func (n *AudioNode) newParam(name string, def, minValue, maxValue float64, rate AutomationRate) *AudioParam {
	p := &AudioParam{
		owner:    n,
		name:     name,
		timeline: automation.NewTimeline(def),
		minValue: minValue,
		maxValue: maxValue,
		rate:     rate,
		value:    def,
		values:   make([]float64, n.ctx.quantumSize),
	}
	n.params = append(n.params, p)
	return p
}

// Name returns the param's attribute name, e.g. "frequency".
func (p *AudioParam) Name() string {
	return p.name
}

// DefaultValue returns the value used before any automation event.
func (p *AudioParam) DefaultValue() float64 {
	return p.timeline.DefaultValue()
}

// MinValue returns the lower bound of the nominal range.
func (p *AudioParam) MinValue() float64 {
	return p.minValue
}

// MaxValue returns the upper bound of the nominal range.
func (p *AudioParam) MaxValue() float64 {
	return p.maxValue
}

// Value returns the most recently computed or set value.
func (p *AudioParam) Value() float64 {
	p.owner.ctx.mu.Lock()
	defer p.owner.ctx.mu.Unlock()
	return p.value
}

// SetValue schedules v at the current time and reports it from Value
// immediately.
func (p *AudioParam) SetValue(v float64) error {
	ctx := p.owner.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if err := p.timeline.SetValueAtTime(v, ctx.currentTime()); err != nil {
		return err
	}
	p.value = core.Clamp(v, p.minValue, p.maxValue)
	return nil
}

// AutomationRate returns the evaluation rate.
func (p *AudioParam) AutomationRate() AutomationRate {
	p.owner.ctx.mu.Lock()
	defer p.owner.ctx.mu.Unlock()
	return p.rate
}

// SetAutomationRate changes the evaluation rate. Params whose rate is
// fixed by their node fail with InvalidStateError.
func (p *AudioParam) SetAutomationRate(rate AutomationRate) error {
	p.owner.ctx.mu.Lock()
	defer p.owner.ctx.mu.Unlock()

	if rate != ARate && rate != KRate {
		return exception.NotSupported("unknown automation rate %d", int(rate))
	}
	if p.fixedRate && rate != p.rate {
		return exception.InvalidState("%s.%s automation rate is fixed at %s", p.owner.kind, p.name, p.rate)
	}
	p.rate = rate
	return nil
}

// SetValueAtTime sets v from time t on.
func (p *AudioParam) SetValueAtTime(v, t float64) error {
	return p.schedule(t, func(t float64) error { return p.timeline.SetValueAtTime(v, t) })
}

// LinearRampToValueAtTime ramps linearly from the previous event to v,
// arriving at endTime.
func (p *AudioParam) LinearRampToValueAtTime(v, endTime float64) error {
	return p.schedule(endTime, func(t float64) error { return p.timeline.LinearRampToValueAtTime(v, t) })
}

// ExponentialRampToValueAtTime ramps exponentially from the previous event
// to v, arriving at endTime. v must be non-zero.
func (p *AudioParam) ExponentialRampToValueAtTime(v, endTime float64) error {
	return p.schedule(endTime, func(t float64) error { return p.timeline.ExponentialRampToValueAtTime(v, t) })
}

// SetTargetAtTime approaches target from startTime on with the given time
// constant.
func (p *AudioParam) SetTargetAtTime(target, startTime, timeConstant float64) error {
	return p.schedule(startTime, func(t float64) error {
		return p.timeline.SetTargetAtTime(target, t, timeConstant)
	})
}

// SetValueCurveAtTime plays values over [startTime, startTime+duration).
func (p *AudioParam) SetValueCurveAtTime(values []float64, startTime, duration float64) error {
	return p.schedule(startTime, func(t float64) error {
		return p.timeline.SetValueCurveAtTime(values, t, duration)
	})
}

// CancelScheduledValues removes every event at or after t.
func (p *AudioParam) CancelScheduledValues(t float64) error {
	return p.schedule(t, p.timeline.CancelScheduledValues)
}

// CancelAndHoldAtTime removes the events after t and holds the value the
// automation had at t.
func (p *AudioParam) CancelAndHoldAtTime(t float64) error {
	return p.schedule(t, p.timeline.CancelAndHoldAtTime)
}

// schedule runs call with t moved up to the current time. Invalid times
// pass through unchanged so the timeline reports them.
func (p *AudioParam) schedule(t float64, call func(float64) error) error {
	ctx := p.owner.ctx
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if now := ctx.currentTime(); t >= 0 && t < now {
		t = now
	}
	return call(t)
}

// compute evaluates the param for the quantum described by r.
func (p *AudioParam) compute(r *renderInfo, pool *buffer.Pool) {
	vals := p.values[:r.size]
	if p.rate == ARate {
		p.timeline.Fill(vals, r.frame, r.sampleRate)
	} else {
		core.Fill(vals, p.timeline.ValueAtFrame(r.frame, r.sampleRate))
	}

	if len(p.sources) > 0 {
		mono := pool.Get(1, r.size)
		for _, s := range p.sources {
			mono.SumFrom(p.owner.ctx.nodes[s.node].outBufs[s.output], buffer.Speakers)
		}
		in := mono.Channel(0)
		if p.rate == ARate {
			core.AddInto(vals, in)
		} else {
			for i := range vals {
				vals[i] += in[0]
			}
		}
		pool.Put(mono)
	}

	for i, v := range vals {
		if math.IsNaN(v) {
			v = p.timeline.DefaultValue()
		}
		vals[i] = core.Clamp(v, p.minValue, p.maxValue)
	}
	p.value = vals[0]
	p.timeline.Prune(r.time(0))
}

// constant reports whether the current quantum holds a single value.
func (p *AudioParam) constant() bool {
	return p.rate == KRate || core.IsConstant(p.values)
}
