package webaudio

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// ChannelCountMode selects how a node derives the channel count it mixes
// its inputs to.
type ChannelCountMode int

const (
	// Max uses the largest channel count among the connections.
	Max ChannelCountMode = iota
	// ClampedMax is Max limited to the node's channel count.
	ClampedMax
	// Explicit always uses the node's channel count.
	Explicit
)

func (m ChannelCountMode) String() string {
	switch m {
	case Max:
		return "max"
	case ClampedMax:
		return "clamped-max"
	case Explicit:
		return "explicit"
	}
	return fmt.Sprintf("ChannelCountMode(%d)", int(m))
}

// ChannelInterpretation is the up/down-mix rule applied to inputs.
type ChannelInterpretation = buffer.Interpretation

// Interpretations re-exported from the buffer package.
const (
	Speakers = buffer.Speakers
	Discrete = buffer.Discrete
)

// AutomationRate selects per-sample or per-quantum param evaluation.
type AutomationRate int

const (
	ARate AutomationRate = iota
	KRate
)

func (r AutomationRate) String() string {
	if r == KRate {
		return "k-rate"
	}
	return "a-rate"
}

// State is the lifecycle state of a context.
type State int

const (
	Suspended State = iota
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
