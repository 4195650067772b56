package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality selects the anti-aliasing filter length and attenuation.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

type config struct {
	tapsPerPhase int
	cutoffScale  float64
	stopbandDB   float64
	maxDen       int
}

func qualityConfig(q Quality) config {
	switch q {
	case QualityFast:
		return config{tapsPerPhase: 16, cutoffScale: 0.88, stopbandDB: 55}
	case QualityBest:
		return config{tapsPerPhase: 64, cutoffScale: 0.96, stopbandDB: 90}
	default:
		return config{tapsPerPhase: 32, cutoffScale: 0.92, stopbandDB: 75}
	}
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects a predefined quality mode. Later options override
// individual fields.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		maxDen := cfg.maxDen
		*cfg = qualityConfig(q)
		cfg.maxDen = maxDen
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithMaxDenominator caps the denominator used to approximate a rate
// ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func buildConfig(opts []Option) config {
	cfg := qualityConfig(QualityBalanced)
	cfg.maxDen = 4096
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Resampler performs streaming rational sample-rate conversion using a
// polyphase FIR.
type Resampler struct {
	up   int
	down int

	phases     [][]float64
	maxPhaseLn int
	center     int // prototype group delay in upsampled samples

	phase      int
	inputIndex int
	totalIn    int
	history    []float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}
	g := gcd(up, down)
	up /= g
	down /= g

	cfg := buildConfig(opts)
	taps, err := designPrototype(up, down, cfg)
	if err != nil {
		return nil, err
	}
	phases, maxPhaseLn := splitPhases(taps, up)

	return &Resampler{
		up:         up,
		down:       down,
		phases:     phases,
		maxPhaseLn: maxPhaseLn,
		center:     (len(taps) - 1) / 2,
		history:    make([]float64, 0, max(0, maxPhaseLn-1)),
	}, nil
}

// NewForRates creates a resampler by approximating outRate/inRate as a
// ratio.
func NewForRates(inRate, outRate float64, opts ...Option) (*Resampler, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}
	cfg := buildConfig(opts)
	up, down := approximateRatio(outRate/inRate, cfg.maxDen)
	return NewRational(up, down, opts...)
}

// Convert resamples a whole buffer from inRate to outRate. The filter delay
// is compensated so output sample m lines up with input time
// m*inRate/outRate, and the result holds round(len(input)*outRate/inRate)
// samples.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}
	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}
	want := int(math.Round(float64(len(input)) * outRate / inRate))
	if want == 0 {
		return []float64{}, nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	// Start the output clock one group delay into the upsampled stream so
	// that output sample 0 is centered on input sample 0.
	r.inputIndex = r.center / r.up
	r.phase = r.center % r.up

	out := r.Process(input)
	pad := make([]float64, r.maxPhaseLn+1)
	for len(out) < want {
		out = append(out, r.Process(pad)...)
	}
	return out[:want], nil
}

// Reset clears internal filter state.
func (r *Resampler) Reset() {
	r.phase = 0
	r.inputIndex = 0
	r.totalIn = 0
	r.history = r.history[:0]
}

// Process converts an input block and keeps state for streaming.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float64, 0, r.PredictOutputLen(len(input)))

	work := make([]float64, len(r.history)+len(input))
	copy(work, r.history)
	copy(work[len(r.history):], input)

	baseIndex := r.totalIn - len(r.history)
	lastAvail := r.totalIn + len(input) - 1

	for r.inputIndex <= lastAvail {
		var y float64
		for k, c := range r.phases[r.phase] {
			idx := r.inputIndex - k
			if idx < baseIndex {
				break
			}
			y += c * work[idx-baseIndex]
		}
		out = append(out, y)

		r.phase += r.down
		r.inputIndex += r.phase / r.up
		r.phase %= r.up
	}

	r.totalIn += len(input)
	keep := min(max(0, r.maxPhaseLn-1), len(work))
	r.history = append(r.history[:0], work[len(work)-keep:]...)

	return out
}

// PredictOutputLen returns the number of samples the next Process call
// produces for inputLen input samples.
func (r *Resampler) PredictOutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	lastAvail := r.totalIn + inputLen - 1
	i, phase := r.inputIndex, r.phase
	count := 0
	for i <= lastAvail {
		count++
		phase += r.down
		i += phase / r.up
		phase %= r.up
	}
	return count
}

// Ratio returns the reduced up/down conversion factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsNaN(rate) && !math.IsInf(rate, 0)
}
