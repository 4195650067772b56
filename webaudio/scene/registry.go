package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-webaudio/webaudio"
)

// Entry is a node built from a scene description.
type Entry struct {
	Node webaudio.Node
	// Params maps the names used in connections and automation to the
	// node's AudioParams.
	Params map[string]*webaudio.AudioParam
	// Start and Stop are set for scheduled sources.
	Start func(when float64) error
	Stop  func(when float64) error
}

// Env is what a Factory sees besides the node's own parameters.
type Env struct {
	Context *webaudio.BaseAudioContext
	Buffers map[string]*webaudio.AudioBuffer
}

// buffer resolves the buffer named by the "buffer" string parameter, or
// returns nil when none is named.
func (e Env) buffer(p Params) (*webaudio.AudioBuffer, error) {
	name := p.GetStr("buffer", "")
	if name == "" {
		return nil, nil
	}
	b, ok := e.Buffers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuffer, name)
	}
	return b, nil
}

// Factory builds the node for one scene entry.
type Factory func(env Env, p Params) (*Entry, error)

var (
	// ErrUnknownType is returned for a node type without a factory.
	ErrUnknownType = errors.New("scene: unknown node type")
	// ErrUnknownBuffer is returned when a node names a buffer that was not
	// supplied.
	ErrUnknownBuffer = errors.New("scene: unknown buffer")

	errDuplicateType = errors.New("scene: duplicate node type")
)

// Registry maps node type names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Names are case-insensitive.
func (r *Registry) Register(nodeType string, f Factory) error {
	key := strings.ToLower(strings.TrimSpace(nodeType))
	if key == "" {
		return errors.New("scene: empty node type")
	}
	if f == nil {
		return errors.New("scene: nil factory")
	}
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("%w: %s", errDuplicateType, key)
	}
	r.factories[key] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(nodeType string, f Factory) {
	if err := r.Register(nodeType, f); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the factory for nodeType, or nil.
func (r *Registry) Lookup(nodeType string) Factory {
	return r.factories[strings.ToLower(strings.TrimSpace(nodeType))]
}
