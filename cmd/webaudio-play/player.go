package main

import (
	"context"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/webaudio"
)

const (
	meterFFTSize = 2048
	gainStepDB   = 1.5
	minGainDB    = -48.0
	maxGainDB    = 6.0
)

// player owns the master section that every scene output is routed
// through: master gain, then an analyser, then the destination.
type player struct {
	ctx      *webaudio.AudioContext
	master   *webaudio.GainNode
	analyser *webaudio.AnalyserNode
	gainDB   float64

	wave     []float64
	spectrum []byte
}

func newPlayer(ctx *webaudio.AudioContext) (*player, error) {
	master, err := ctx.CreateGain(webaudio.GainOptions{})
	if err != nil {
		return nil, err
	}
	analyser, err := ctx.CreateAnalyser(webaudio.AnalyserOptions{FFTSize: meterFFTSize})
	if err != nil {
		return nil, err
	}
	if err := analyser.SetDecibels(-90, 0); err != nil {
		return nil, err
	}
	if err := master.Connect(analyser, 0, 0); err != nil {
		return nil, err
	}
	if err := analyser.Connect(ctx.Destination(), 0, 0); err != nil {
		return nil, err
	}
	return &player{
		ctx:      ctx,
		master:   master,
		analyser: analyser,
		wave:     make([]float64, meterFFTSize),
		spectrum: make([]byte, analyser.FrequencyBinCount()),
	}, nil
}

// nudgeGain moves the master gain by steps of gainStepDB with a short
// ramp to avoid clicks.
func (p *player) nudgeGain(steps int) error {
	p.gainDB = core.Clamp(p.gainDB+float64(steps)*gainStepDB, minGainDB, maxGainDB)
	now := p.ctx.CurrentTime()
	g := p.master.Gain
	if err := g.CancelAndHoldAtTime(now); err != nil {
		return err
	}
	return g.LinearRampToValueAtTime(core.DBToLinear(p.gainDB), now+0.05)
}

// togglePause suspends a running context and resumes a suspended one.
func (p *player) togglePause() error {
	f := p.ctx.Suspend
	if p.ctx.State() != webaudio.Running {
		f = p.ctx.Resume
	}
	_, err := f().Wait(context.Background())
	return err
}

// levels returns peak and RMS of the most recent analyser window in dBFS.
func (p *player) levels() (peakDB, rmsDB float64) {
	p.analyser.GetFloatTimeDomainData(p.wave)
	var peak, sum float64
	for _, v := range p.wave {
		peak = math.Max(peak, math.Abs(v))
		sum += v * v
	}
	return core.LinearToDB(peak), core.LinearToDB(math.Sqrt(sum / float64(len(p.wave))))
}

// bands folds the byte spectrum into n logarithmically spaced bands in
// [0, 1].
func (p *player) bands(n int) []float64 {
	p.analyser.GetByteFrequencyData(p.spectrum)
	return foldBands(p.spectrum, n)
}

func foldBands(spectrum []byte, n int) []float64 {
	out := make([]float64, n)
	if n == 0 || len(spectrum) < 2 {
		return out
	}
	last := float64(len(spectrum) - 1)
	for i := range out {
		lo := int(math.Pow(last, float64(i)/float64(n)))
		hi := int(math.Pow(last, float64(i+1)/float64(n)))
		hi = max(hi, lo+1)
		var peak byte
		for k := lo; k < hi && k < len(spectrum); k++ {
			peak = max(peak, spectrum[k])
		}
		out[i] = float64(peak) / 255
	}
	return out
}
