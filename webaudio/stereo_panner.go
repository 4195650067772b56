package webaudio

import (
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// StereoPannerOptions configures a StereoPannerNode.
type StereoPannerOptions struct {
	NodeOptions
}

// StereoPannerNode positions its input in the stereo field with an
// equal-power law. Its channel count is at most 2 and its channel count
// mode cannot be Max.
type StereoPannerNode struct {
	*AudioNode
	Pan *AudioParam
}

type stereoPannerKernel struct {
	pan *AudioParam
}

// CreateStereoPanner adds a centered StereoPannerNode.
func (c *BaseAudioContext) CreateStereoPanner(opts StereoPannerOptions) (*StereoPannerNode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("StereoPannerNode", 1, 1, 2, ClampedMax)
	n.constraints.maxCount = 2
	n.constraints.noMaxMode = true
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	p := &StereoPannerNode{AudioNode: n}
	p.Pan = n.newParam("pan", 0, -1, 1, ARate)
	n.kernel = &stereoPannerKernel{pan: p.Pan}
	c.register(n)
	return p, nil
}

func (k *stereoPannerKernel) process(r *renderInfo, inputs, outputs []*buffer.Quantum) {
	in, out := inputs[0], outputs[0]
	out.SetChannels(2)
	left, right := out.Channel(0), out.Channel(1)
	pan := k.pan.values[:r.size]

	if in.Channels() == 1 {
		src := in.Channel(0)
		for i, p := range pan {
			gl, gr := panGains((p + 1) / 2)
			x := src[i]
			left[i] = x * gl
			right[i] = x * gr
		}
		return
	}

	inL, inR := in.Channel(0), in.Channel(1)
	for i, p := range pan {
		l, r := inL[i], inR[i]
		if p <= 0 {
			gl, gr := panGains(p + 1)
			left[i] = l + r*gl
			right[i] = r * gr
		} else {
			gl, gr := panGains(p)
			left[i] = l * gl
			right[i] = r + l*gr
		}
	}
}

// panGains returns cos(x·π/2) and sin(x·π/2).
func panGains(x float64) (float64, float64) {
	s, c := math.Sincos(x * math.Pi / 2)
	return c, s
}
