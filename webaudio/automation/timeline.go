package automation

import (
	"math"
	"slices"
	"sort"

	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// FrameEpsilon absorbs rounding when converting times to frame indices.
const FrameEpsilon = 1e-6

// Timeline is the ordered event list of one parameter. It is not safe for
// concurrent use; the owning context serializes access.
type Timeline struct {
	defaultValue float64
	events       []Event
	seq          uint64
}

// NewTimeline returns an empty timeline evaluating to defaultValue.
func NewTimeline(defaultValue float64) *Timeline {
	return &Timeline{defaultValue: defaultValue}
}

// DefaultValue returns the value used before the first event.
func (tl *Timeline) DefaultValue() float64 {
	return tl.defaultValue
}

// Len returns the number of scheduled events.
func (tl *Timeline) Len() int {
	return len(tl.events)
}

// Events returns a copy of the scheduled events in order.
func (tl *Timeline) Events() []Event {
	out := make([]Event, len(tl.events))
	copy(out, tl.events)
	return out
}

// SetValueAtTime schedules an instant change to value at time t.
func (tl *Timeline) SetValueAtTime(value, t float64) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if err := tl.checkTime("startTime", t); err != nil {
		return err
	}
	tl.insert(Event{Type: SetValue, Time: t, Value: value})
	return nil
}

// LinearRampToValueAtTime schedules a linear ramp from the preceding event
// to value, reached at endTime.
func (tl *Timeline) LinearRampToValueAtTime(value, endTime float64) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if err := tl.checkTime("endTime", endTime); err != nil {
		return err
	}
	tl.insert(Event{Type: LinearRamp, Time: endTime, Value: value})
	return nil
}

// ExponentialRampToValueAtTime schedules an exponential ramp from the
// preceding event to value, reached at endTime. value must not be zero.
func (tl *Timeline) ExponentialRampToValueAtTime(value, endTime float64) error {
	if err := checkValue(value); err != nil {
		return err
	}
	if value == 0 {
		return exception.Range("exponential ramp target must be non-zero")
	}
	if err := tl.checkTime("endTime", endTime); err != nil {
		return err
	}
	tl.insert(Event{Type: ExponentialRamp, Time: endTime, Value: value})
	return nil
}

// SetTargetAtTime starts an exponential approach to target at startTime.
// A timeConstant of zero jumps to target immediately.
func (tl *Timeline) SetTargetAtTime(target, startTime, timeConstant float64) error {
	if err := checkValue(target); err != nil {
		return err
	}
	if timeConstant < 0 || !isFinite(timeConstant) {
		return exception.Range("timeConstant %v must be a finite non-negative number", timeConstant)
	}
	if err := tl.checkTime("startTime", startTime); err != nil {
		return err
	}
	tl.insert(Event{Type: SetTarget, Time: startTime, Value: target, TimeConstant: timeConstant})
	return nil
}

// SetValueCurveAtTime spreads values evenly over [startTime,
// startTime+duration). The curve is copied.
func (tl *Timeline) SetValueCurveAtTime(values []float64, startTime, duration float64) error {
	if len(values) < 2 {
		return exception.InvalidState("value curve needs at least 2 points, got %d", len(values))
	}
	for i, v := range values {
		if !isFinite(v) {
			return exception.Range("curve value %d is %v", i, v)
		}
	}
	if duration <= 0 || !isFinite(duration) {
		return exception.Range("duration %v must be a finite positive number", duration)
	}
	if err := tl.checkTime("startTime", startTime); err != nil {
		return err
	}

	end := startTime + duration
	for i := range tl.events {
		if t := tl.events[i].Time; t > startTime && t < end {
			return exception.NotSupported("value curve [%v, %v) overlaps %v event at %v",
				startTime, end, tl.events[i].Type, t)
		}
	}

	tl.insert(Event{
		Type:          SetValueCurve,
		Time:          startTime,
		Curve:         slices.Clone(values),
		Duration:      duration,
		CurveDuration: duration,
	})
	return nil
}

// CancelScheduledValues removes every event whose time is at or after t.
func (tl *Timeline) CancelScheduledValues(t float64) error {
	if err := checkTime("cancelTime", t); err != nil {
		return err
	}
	tl.events = tl.events[:tl.firstAtOrAfter(t)]
	tl.invalidate()
	return nil
}

// CancelAndHoldAtTime removes events after t while keeping the value the
// automation had reached at t:
//
//   - a ramp still running at t is cut short to end at t on the same law;
//   - a value curve running at t is truncated at t, its samples keeping
//     their original spacing;
//   - a SetValue of the held value is placed at t.
func (tl *Timeline) CancelAndHoldAtTime(t float64) error {
	if err := checkTime("cancelTime", t); err != nil {
		return err
	}

	held := tl.ValueAt(t)
	floor := tl.floorIndex(t)
	next := floor + 1

	var ramp *Event
	if next < len(tl.events) && tl.events[next].isRamp() {
		r := tl.events[next]
		r.Time = t
		r.Value = held
		ramp = &r
	}

	tl.events = tl.events[:next]
	if floor >= 0 {
		if e := &tl.events[floor]; e.Type == SetValueCurve && e.Time < t && t < e.End() {
			e.Duration = t - e.Time
		}
	}
	if ramp != nil {
		tl.events = append(tl.events, *ramp)
	}
	tl.invalidate()
	tl.insert(Event{Type: SetValue, Time: t, Value: held})
	return nil
}

// Prune drops events that can no longer affect values at or after t. The
// event in effect at t is kept; if it is a SetTarget its start value is
// frozen first.
func (tl *Timeline) Prune(t float64) {
	floor := tl.floorIndex(t)
	if floor <= 0 {
		return
	}
	// A ramp ending after t still interpolates from the floor event, which
	// stays; anything before the floor is history.
	if e := &tl.events[floor]; e.Type == SetTarget {
		e.start = tl.targetStart(floor)
		e.frozen = true
	}
	n := copy(tl.events, tl.events[floor:])
	clear(tl.events[n:])
	tl.events = tl.events[:n]
}

// ValueAt returns the intrinsic value at time t.
func (tl *Timeline) ValueAt(t float64) float64 {
	return tl.valueWithFloor(tl.floorIndex(t), t)
}

// ValueAtFrame returns the intrinsic value at the given frame. Events are
// mapped to frames with Frame.
func (tl *Timeline) ValueAtFrame(frame int64, sampleRate float64) float64 {
	var v [1]float64
	tl.Fill(v[:], frame, sampleRate)
	return v[0]
}

// Fill writes the intrinsic values of frames frame, frame+1, ... to dst.
// An event takes effect at the frame Frame assigns to its time, and each
// sample is evaluated at its exact frame time.
func (tl *Timeline) Fill(dst []float64, frame int64, sampleRate float64) {
	if len(tl.events) == 0 {
		for i := range dst {
			dst[i] = tl.defaultValue
		}
		return
	}

	floor := sort.Search(len(tl.events), func(i int) bool {
		return Frame(tl.events[i].Time, sampleRate) > frame
	}) - 1
	for i := range dst {
		f := frame + int64(i)
		for floor+1 < len(tl.events) && Frame(tl.events[floor+1].Time, sampleRate) <= f {
			floor++
		}
		t := float64(f) / sampleRate
		if floor >= 0 {
			t = max(t, tl.events[floor].Time)
		}
		dst[i] = tl.valueWithFloor(floor, t)
	}
}

// valueWithFloor evaluates the curve at t given the index of the last
// event at or before t (-1 for none).
func (tl *Timeline) valueWithFloor(floor int, t float64) float64 {
	if floor < 0 {
		return tl.defaultValue
	}

	e := &tl.events[floor]
	switch e.Type {
	case SetTarget:
		start := tl.targetStart(floor)
		if e.TimeConstant == 0 {
			return e.Value
		}
		return e.Value + (start-e.Value)*math.Exp((e.Time-t)/e.TimeConstant)
	case SetValueCurve:
		return e.curveValue(t)
	}

	if floor+1 < len(tl.events) {
		next := &tl.events[floor+1]
		if next.isRamp() {
			return interpolate(next.Type, e.Time, e.Value, next.Time, next.Value, t)
		}
	}
	return e.Value
}

// targetStart resolves the value a SetTarget event at index i starts from:
// whatever the preceding event produces at the SetTarget's start time.
func (tl *Timeline) targetStart(i int) float64 {
	e := &tl.events[i]
	if !e.startKnown && !e.frozen {
		e.start = tl.valueWithFloor(i-1, e.Time)
		e.startKnown = true
	}
	return e.start
}

func interpolate(law Type, t0, v0, t1, v1, t float64) float64 {
	ratio := (t - t0) / (t1 - t0)
	if law == ExponentialRamp {
		if v0 == 0 || (v0 < 0) != (v1 < 0) {
			return v0
		}
		return v0 * math.Pow(v1/v0, ratio)
	}
	return v0 + (v1-v0)*ratio
}

// insert places e after every event with the same or an earlier time.
func (tl *Timeline) insert(e Event) {
	tl.seq++
	e.seq = tl.seq
	i := sort.Search(len(tl.events), func(i int) bool { return tl.events[i].Time > e.Time })
	tl.events = slices.Insert(tl.events, i, e)
	tl.invalidate()
}

// invalidate forgets resolved SetTarget start values that were not frozen
// by pruning.
func (tl *Timeline) invalidate() {
	for i := range tl.events {
		if !tl.events[i].frozen {
			tl.events[i].startKnown = false
		}
	}
}

// floorIndex returns the index of the last event with Time <= t, or -1.
func (tl *Timeline) floorIndex(t float64) int {
	return sort.Search(len(tl.events), func(i int) bool { return tl.events[i].Time > t }) - 1
}

func (tl *Timeline) firstAtOrAfter(t float64) int {
	return sort.Search(len(tl.events), func(i int) bool { return tl.events[i].Time >= t })
}

// checkTime validates t and rejects times inside an existing value curve.
func (tl *Timeline) checkTime(name string, t float64) error {
	if err := checkTime(name, t); err != nil {
		return err
	}
	for i := range tl.events {
		e := &tl.events[i]
		if e.Type == SetValueCurve && t >= e.Time && t < e.End() {
			return exception.NotSupported("%s %v falls inside value curve [%v, %v)", name, t, e.Time, e.End())
		}
	}
	return nil
}

func checkTime(name string, t float64) error {
	if t < 0 || !isFinite(t) {
		return exception.Range("%s %v must be a finite non-negative number", name, t)
	}
	return nil
}

func checkValue(v float64) error {
	if !isFinite(v) {
		return exception.Range("value %v is not finite", v)
	}
	return nil
}

// Frame returns the first frame at or after time t, absorbing rounding
// so a time computed as n/sampleRate maps to frame n.
func Frame(t, sampleRate float64) int64 {
	return int64(math.Ceil(t*sampleRate - FrameEpsilon))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
