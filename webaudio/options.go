package webaudio

import (
	"github.com/pion/logging"

	"github.com/cwbudde/algo-webaudio/dsp/core"
)

// Limits on context and buffer configuration.
const (
	MaxChannels   = 32
	MinSampleRate = 3000.0
	MaxSampleRate = 768000.0
)

type contextConfig struct {
	processor core.ProcessorConfig
	loggers   logging.LoggerFactory
	sink      Sink
}

// ContextOption configures a context at construction.
type ContextOption func(*contextConfig)

// WithSampleRate sets the context sample rate in Hz.
func WithSampleRate(sampleRate float64) ContextOption {
	return func(cfg *contextConfig) {
		core.WithSampleRate(sampleRate)(&cfg.processor)
	}
}

// WithQuantumSize sets the number of frames rendered per quantum.
func WithQuantumSize(frames int) ContextOption {
	return func(cfg *contextConfig) {
		core.WithBlockSize(frames)(&cfg.processor)
	}
}

// WithChannels sets the channel count of the destination.
func WithChannels(channels int) ContextOption {
	return func(cfg *contextConfig) {
		core.WithChannels(channels)(&cfg.processor)
	}
}

// WithLoggerFactory replaces the default pion logger factory.
func WithLoggerFactory(f logging.LoggerFactory) ContextOption {
	return func(cfg *contextConfig) {
		if f != nil {
			cfg.loggers = f
		}
	}
}

// WithSink attaches a device sink to a realtime context. The sink is
// started by the first Resume. Offline contexts ignore it.
func WithSink(s Sink) ContextOption {
	return func(cfg *contextConfig) {
		cfg.sink = s
	}
}

func applyContextOptions(opts []ContextOption) contextConfig {
	cfg := contextConfig{processor: core.DefaultProcessorConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.loggers == nil {
		cfg.loggers = logging.NewDefaultLoggerFactory()
	}
	return cfg
}

// NodeOptions carries the channel configuration shared by every node
// constructor. Zero fields keep the node's defaults.
type NodeOptions struct {
	ChannelCount          int
	ChannelCountMode      *ChannelCountMode
	ChannelInterpretation *ChannelInterpretation
}

// apply configures n, returning the first validation error.
func (o NodeOptions) apply(n *AudioNode) error {
	if o.ChannelCount != 0 {
		if err := n.setChannelCount(o.ChannelCount); err != nil {
			return err
		}
	}
	if o.ChannelCountMode != nil {
		if err := n.setChannelCountMode(*o.ChannelCountMode); err != nil {
			return err
		}
	}
	if o.ChannelInterpretation != nil {
		if err := n.setChannelInterpretation(*o.ChannelInterpretation); err != nil {
			return err
		}
	}
	return nil
}
