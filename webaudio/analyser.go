package webaudio

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/dsp/window"
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// Analyser limits and defaults.
const (
	MinFFTSize     = 32
	MaxFFTSize     = 32768
	DefaultFFTSize = 2048

	defaultMinDecibels = -100.0
	defaultMaxDecibels = -30.0
	defaultSmoothing   = 0.8
)

// AnalyserOptions configures an AnalyserNode. Zero FFTSize selects 2048.
type AnalyserOptions struct {
	NodeOptions
	FFTSize int
}

// AnalyserNode passes its input through unchanged and exposes the most
// recent samples and their smoothed Blackman-windowed spectrum.
type AnalyserNode struct {
	*AudioNode
	kernel *analyserKernel
}

type analyserKernel struct {
	fftSize     int
	minDecibels float64
	maxDecibels float64
	smoothing   float64

	// history is a ring of the last MaxFFTSize mono samples.
	history []float64
	write   int
	mono    *buffer.Quantum

	analysedFrame int64
	plan          *algofft.Plan[complex128]
	win           []float64
	spectrum      []complex128
	re, im, mag   []float64
	smoothed      []float64
}

// CreateAnalyser adds an AnalyserNode.
func (c *BaseAudioContext) CreateAnalyser(opts AnalyserOptions) (*AnalyserNode, error) {
	size := opts.FFTSize
	if size == 0 {
		size = DefaultFFTSize
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.newNode("AnalyserNode", 1, 1, 2, Max)
	if err := opts.apply(n); err != nil {
		return nil, err
	}
	k := &analyserKernel{
		minDecibels:   defaultMinDecibels,
		maxDecibels:   defaultMaxDecibels,
		smoothing:     defaultSmoothing,
		history:       make([]float64, MaxFFTSize),
		mono:          buffer.New(1, c.quantumSize),
		analysedFrame: -1,
	}
	if err := k.setFFTSize(size); err != nil {
		return nil, err
	}
	n.kernel = k
	c.register(n)
	return &AnalyserNode{AudioNode: n, kernel: k}, nil
}

// FFTSize returns the analysis window length.
func (a *AnalyserNode) FFTSize() int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	return a.kernel.fftSize
}

// SetFFTSize changes the analysis window length. Sizes that are not a
// power of two in [32, 32768] fail with IndexSizeError.
func (a *AnalyserNode) SetFFTSize(size int) error {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	return a.kernel.setFFTSize(size)
}

// FrequencyBinCount returns FFTSize/2.
func (a *AnalyserNode) FrequencyBinCount() int {
	return a.FFTSize() / 2
}

// Decibels returns the range mapped onto byte frequency data.
func (a *AnalyserNode) Decibels() (minDB, maxDB float64) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	return a.kernel.minDecibels, a.kernel.maxDecibels
}

// SetDecibels sets the byte-data range. minDB must be below maxDB, else
// IndexSizeError.
func (a *AnalyserNode) SetDecibels(minDB, maxDB float64) error {
	if !(minDB < maxDB) {
		return exception.IndexSize("AnalyserNode: min decibels %v not below max %v", minDB, maxDB)
	}
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	a.kernel.minDecibels, a.kernel.maxDecibels = minDB, maxDB
	return nil
}

// SmoothingTimeConstant returns the spectrum averaging factor.
func (a *AnalyserNode) SmoothingTimeConstant() float64 {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	return a.kernel.smoothing
}

// SetSmoothingTimeConstant sets the averaging factor in [0, 1], else
// IndexSizeError.
func (a *AnalyserNode) SetSmoothingTimeConstant(v float64) error {
	if !(v >= 0 && v <= 1) {
		return exception.IndexSize("AnalyserNode: smoothing %v outside [0, 1]", v)
	}
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	a.kernel.smoothing = v
	return nil
}

// GetFloatTimeDomainData copies the most recent samples into dst, oldest
// first. At most FFTSize samples are written.
func (a *AnalyserNode) GetFloatTimeDomainData(dst []float64) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	k := a.kernel
	n := min(len(dst), k.fftSize)
	k.recent(dst[:n], k.fftSize)
}

// GetByteTimeDomainData writes the most recent samples scaled to
// 128·(1+x) and clamped to [0, 255].
func (a *AnalyserNode) GetByteTimeDomainData(dst []byte) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	k := a.kernel
	n := min(len(dst), k.fftSize)
	tmp := make([]float64, n)
	k.recent(tmp, k.fftSize)
	for i, x := range tmp {
		dst[i] = toByte(128 * (1 + x))
	}
}

// GetFloatFrequencyData writes the smoothed spectrum in dB. At most
// FrequencyBinCount values are written.
func (a *AnalyserNode) GetFloatFrequencyData(dst []float64) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	k := a.kernel
	k.analyse(a.ctx.frame)
	for i := range min(len(dst), len(k.smoothed)) {
		dst[i] = core.LinearToDB(k.smoothed[i])
	}
}

// GetByteFrequencyData writes the smoothed spectrum mapped linearly from
// [minDecibels, maxDecibels] onto [0, 255].
func (a *AnalyserNode) GetByteFrequencyData(dst []byte) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()
	k := a.kernel
	k.analyse(a.ctx.frame)
	scale := 255 / (k.maxDecibels - k.minDecibels)
	for i := range min(len(dst), len(k.smoothed)) {
		db := core.LinearToDB(k.smoothed[i])
		dst[i] = toByte(scale * (db - k.minDecibels))
	}
}

func toByte(v float64) byte {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}

func (k *analyserKernel) setFFTSize(size int) error {
	if size < MinFFTSize || size > MaxFFTSize || !core.IsPowerOfTwo(size) {
		return exception.IndexSize("AnalyserNode: fft size %d is not a power of two in [%d, %d]",
			size, MinFFTSize, MaxFFTSize)
	}
	if size == k.fftSize {
		return nil
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return exception.Wrap(exception.ErrNotSupported, err)
	}
	win, err := window.Blackman(size, window.WithPeriodic())
	if err != nil {
		return exception.Wrap(exception.ErrNotSupported, err)
	}

	bins := size / 2
	k.fftSize = size
	k.plan = plan
	k.win = win
	k.spectrum = make([]complex128, size)
	k.re = make([]float64, bins)
	k.im = make([]float64, bins)
	k.mag = make([]float64, bins)
	k.smoothed = make([]float64, bins)
	k.analysedFrame = -1
	return nil
}

func (k *analyserKernel) process(r *renderInfo, inputs, outputs []*buffer.Quantum) {
	in := inputs[0]
	outputs[0].CopyFrom(in)

	k.mono.Zero()
	k.mono.SumFrom(in, buffer.Speakers)
	for _, x := range k.mono.Channel(0)[:r.size] {
		k.history[k.write] = x
		k.write = (k.write + 1) % len(k.history)
	}
}

// recent copies the newest len(dst) of the last n samples into dst.
func (k *analyserKernel) recent(dst []float64, n int) {
	start := k.write - n
	for i := range dst {
		idx := (start + i) % len(k.history)
		if idx < 0 {
			idx += len(k.history)
		}
		dst[i] = k.history[idx]
	}
}

// analyse refreshes the smoothed magnitude spectrum once per rendered
// quantum.
func (k *analyserKernel) analyse(frame int64) {
	if frame == k.analysedFrame {
		return
	}
	k.analysedFrame = frame

	n := k.fftSize
	samples := make([]float64, n)
	k.recent(samples, n)
	_ = window.ApplyInPlace(samples, k.win)
	for i, x := range samples {
		k.spectrum[i] = complex(x, 0)
	}
	if err := k.plan.Forward(k.spectrum, k.spectrum); err != nil {
		return
	}

	for i := range k.re {
		k.re[i] = real(k.spectrum[i])
		k.im[i] = imag(k.spectrum[i])
	}
	vecmath.Magnitude(k.mag, k.re, k.im)

	tau := k.smoothing
	inv := 1 / float64(n)
	for i, m := range k.mag {
		v := tau*k.smoothed[i] + (1-tau)*m*inv
		if !core.IsFinite(v) {
			v = 0
		}
		k.smoothed[i] = v
	}
}
