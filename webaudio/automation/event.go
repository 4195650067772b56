package automation

import "fmt"

// Type identifies the kind of an automation event.
type Type int

const (
	SetValue Type = iota
	LinearRamp
	ExponentialRamp
	SetTarget
	SetValueCurve
)

func (t Type) String() string {
	switch t {
	case SetValue:
		return "SetValue"
	case LinearRamp:
		return "LinearRamp"
	case ExponentialRamp:
		return "ExponentialRamp"
	case SetTarget:
		return "SetTarget"
	case SetValueCurve:
		return "SetValueCurve"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Event is one scheduled change. Time is the single ordering key: the
// moment of a SetValue, the end of a ramp, the start of a SetTarget or of
// a value curve.
type Event struct {
	Type  Type
	Time  float64
	Value float64 // SetValue and ramp value, SetTarget target

	TimeConstant float64 // SetTarget

	Curve []float64 // SetValueCurve samples
	// Duration is the active length of a value curve. CurveDuration is the
	// span its samples are spread over; the two differ once a curve has
	// been truncated by a cancel-and-hold.
	Duration      float64
	CurveDuration float64

	seq uint64

	// SetTarget start value, resolved lazily from the preceding event.
	// A frozen start survives the removal of that event.
	start      float64
	startKnown bool
	frozen     bool
}

// End returns the time the event stops driving the value on its own: the
// end of a curve's active interval, otherwise Time.
func (e *Event) End() float64 {
	if e.Type == SetValueCurve {
		return e.Time + e.Duration
	}
	return e.Time
}

// isRamp reports whether the event interpolates from the preceding one.
func (e *Event) isRamp() bool {
	return e.Type == LinearRamp || e.Type == ExponentialRamp
}

func (e *Event) curveValue(t float64) float64 {
	n := len(e.Curve)
	if t >= e.End() {
		t = e.End()
	}
	pos := (t - e.Time) / e.CurveDuration * float64(n-1)
	if pos <= 0 {
		return e.Curve[0]
	}
	k := int(pos)
	if k >= n-1 {
		return e.Curve[n-1]
	}
	frac := pos - float64(k)
	return e.Curve[k] + (e.Curve[k+1]-e.Curve[k])*frac
}
