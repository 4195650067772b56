package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/algo-webaudio/webaudio"
)

// DestinationID is the reserved ID of the context destination.
const DestinationID = "destination"

// ErrInvalidScene wraps every structural problem in a scene description.
var ErrInvalidScene = errors.New("scene: invalid scene")

type sceneNode struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Params     map[string]any   `json:"params"`
	Start      *float64         `json:"start"`
	Stop       *float64         `json:"stop"`
	Automation []automationStep `json:"automation"`
}

type automationStep struct {
	Param        string    `json:"param"`
	Method       string    `json:"method"`
	Value        float64   `json:"value"`
	Values       []float64 `json:"values"`
	Time         float64   `json:"time"`
	Duration     float64   `json:"duration"`
	TimeConstant float64   `json:"timeConstant"`
}

type sceneConnection struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Output int    `json:"output"`
	Input  int    `json:"input"`
	Param  string `json:"param,omitempty"`
}

type sceneState struct {
	Nodes       []sceneNode       `json:"nodes"`
	Connections []sceneConnection `json:"connections"`
}

// Scene is a graph built into a context.
type Scene struct {
	entries map[string]*Entry
	order   []string
}

// Option configures Load.
type Option func(*config)

type config struct {
	registry    *Registry
	buffers     map[string]*webaudio.AudioBuffer
	destination webaudio.Node
}

// WithRegistry resolves node types through r instead of Defaults.
func WithRegistry(r *Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithBuffers makes named buffers available to buffer and convolver
// nodes through their "buffer" parameter.
func WithBuffers(b map[string]*webaudio.AudioBuffer) Option {
	return func(c *config) { c.buffers = b }
}

// WithDestination routes connections to "destination" into n, so the
// caller can insert its own processing before the context destination.
func WithDestination(n webaudio.Node) Option {
	return func(c *config) { c.destination = n }
}

// Read decodes a scene from r and builds it into ctx.
func Read(ctx *webaudio.BaseAudioContext, r io.Reader, opts ...Option) (*Scene, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(ctx, raw, opts...)
}

// Load builds the scene described by raw into ctx: it creates every node,
// applies numeric parameters named like one of the node's AudioParams,
// records automation, makes the connections and finally schedules the
// sources. The first error aborts the load; nodes created up to that
// point stay in the context.
func Load(ctx *webaudio.BaseAudioContext, raw []byte, opts ...Option) (*Scene, error) {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = Defaults()
	}
	if cfg.destination == nil {
		cfg.destination = ctx.Destination()
	}

	var state sceneState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}

	s := &Scene{
		entries: map[string]*Entry{DestinationID: {Node: cfg.destination}},
	}
	env := Env{Context: ctx, Buffers: cfg.buffers}

	for _, n := range state.Nodes {
		if err := s.build(env, cfg.registry, n); err != nil {
			return nil, err
		}
	}
	for _, c := range state.Connections {
		if err := s.connect(c); err != nil {
			return nil, err
		}
	}
	for _, n := range state.Nodes {
		if err := s.schedule(n); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scene) build(env Env, reg *Registry, n sceneNode) error {
	switch {
	case n.ID == "" || n.Type == "":
		return fmt.Errorf("%w: node needs an id and a type", ErrInvalidScene)
	case s.entries[n.ID] != nil:
		return fmt.Errorf("%w: duplicate node id %q", ErrInvalidScene, n.ID)
	}
	factory := reg.Lookup(n.Type)
	if factory == nil {
		return fmt.Errorf("%w: %s (node %s)", ErrUnknownType, n.Type, n.ID)
	}

	num, str, list := parseParams(n.Params)
	p := Params{ID: n.ID, Type: n.Type, Num: num, Str: str, List: list}
	e, err := factory(env, p)
	if err != nil {
		return fmt.Errorf("scene: build %s: %w", n.ID, err)
	}

	for name, param := range e.Params {
		if p.HasNum(name) {
			if err := param.SetValue(p.GetNum(name, param.DefaultValue())); err != nil {
				return fmt.Errorf("scene: %s.%s: %w", n.ID, name, err)
			}
		}
	}
	for _, step := range n.Automation {
		param, ok := e.Params[step.Param]
		if !ok {
			return fmt.Errorf("%w: %s has no param %q", ErrInvalidScene, n.ID, step.Param)
		}
		if err := automate(param, step); err != nil {
			return fmt.Errorf("scene: %s.%s %s: %w", n.ID, step.Param, step.Method, err)
		}
	}

	s.entries[n.ID] = e
	s.order = append(s.order, n.ID)
	return nil
}

func automate(p *webaudio.AudioParam, step automationStep) error {
	switch step.Method {
	case "setValue":
		return p.SetValueAtTime(step.Value, step.Time)
	case "linearRamp":
		return p.LinearRampToValueAtTime(step.Value, step.Time)
	case "exponentialRamp":
		return p.ExponentialRampToValueAtTime(step.Value, step.Time)
	case "setTarget":
		return p.SetTargetAtTime(step.Value, step.Time, step.TimeConstant)
	case "valueCurve":
		return p.SetValueCurveAtTime(step.Values, step.Time, step.Duration)
	case "cancel":
		return p.CancelScheduledValues(step.Time)
	case "cancelAndHold":
		return p.CancelAndHoldAtTime(step.Time)
	}
	return fmt.Errorf("%w: unknown automation method %q", ErrInvalidScene, step.Method)
}

func (s *Scene) connect(c sceneConnection) error {
	from, ok := s.entries[c.From]
	if !ok {
		return fmt.Errorf("%w: connection from unknown node %q", ErrInvalidScene, c.From)
	}
	to, ok := s.entries[c.To]
	if !ok {
		return fmt.Errorf("%w: connection to unknown node %q", ErrInvalidScene, c.To)
	}
	if c.Param == "" {
		if err := from.Node.Base().Connect(to.Node, c.Output, c.Input); err != nil {
			return fmt.Errorf("scene: connect %s -> %s: %w", c.From, c.To, err)
		}
		return nil
	}
	param, ok := to.Params[c.Param]
	if !ok {
		return fmt.Errorf("%w: %s has no param %q", ErrInvalidScene, c.To, c.Param)
	}
	if err := from.Node.Base().ConnectParam(param, c.Output); err != nil {
		return fmt.Errorf("scene: connect %s -> %s.%s: %w", c.From, c.To, c.Param, err)
	}
	return nil
}

func (s *Scene) schedule(n sceneNode) error {
	if n.Start == nil && n.Stop == nil {
		return nil
	}
	e := s.entries[n.ID]
	if e.Start == nil {
		return fmt.Errorf("%w: %s is not a scheduled source", ErrInvalidScene, n.ID)
	}
	if n.Start != nil {
		if err := e.Start(*n.Start); err != nil {
			return fmt.Errorf("scene: start %s: %w", n.ID, err)
		}
	}
	if n.Stop != nil {
		if err := e.Stop(*n.Stop); err != nil {
			return fmt.Errorf("scene: stop %s: %w", n.ID, err)
		}
	}
	return nil
}

// Node returns the node with the given ID, or nil.
func (s *Scene) Node(id string) webaudio.Node {
	if e := s.entries[id]; e != nil {
		return e.Node
	}
	return nil
}

// Param returns the named AudioParam of node id, or nil.
func (s *Scene) Param(id, name string) *webaudio.AudioParam {
	if e := s.entries[id]; e != nil {
		return e.Params[name]
	}
	return nil
}

// IDs returns the node IDs in declaration order, without the destination.
func (s *Scene) IDs() []string {
	return append([]string(nil), s.order...)
}
