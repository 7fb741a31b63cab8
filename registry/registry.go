package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/plugtree/schema"
)

// ErrNotRegistered reports a config document asking for a module name
// that no implementation was registered under.
var ErrNotRegistered = errors.New("plugin implementation not registered")

// Module is the interface that all core modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// InitFunc builds a plugin instance. It receives the validated config
// (the typed config struct when the plugin registers one, a plain map
// otherwise) and the already initialized instances of the plugin's
// children, keyed by child name.
type InitFunc func(ctx context.Context, cfg any, children map[string]any) (any, error)

// Plugin holds the compiled Go parts of one plugin implementation.
type Plugin struct {
	// Description is a short summary of what the module does.
	Description string

	// ConfigSpec declares the keys the config block accepts. A plugin
	// without a spec must be given an empty config block.
	ConfigSpec *schema.Spec

	// NewConfig returns a fresh typed config struct to decode into.
	// When nil, the init hook receives the validated map directly.
	NewConfig func() any

	// Init builds the plugin instance once all children are built.
	Init InitFunc
}

// Registry holds all the registered plugin implementations for a single
// application instance.
type Registry struct {
	plugins map[string]*Plugin
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{plugins: make(map[string]*Plugin)}
}

// Register registers a plugin implementation under a module name.
func (r *Registry) Register(name string, p *Plugin) {
	if _, exists := r.plugins[name]; exists {
		panic(fmt.Sprintf("plugin with name '%s' already registered", name))
	}
	if p == nil || p.Init == nil {
		panic(fmt.Sprintf("plugin '%s' registered without an init hook", name))
	}
	slog.Debug("Registering plugin implementation.", "module", name)
	r.plugins[name] = p
}

// Resolve looks up the implementation registered under a module name.
func (r *Registry) Resolve(name string) (*Plugin, error) {
	p, ok := r.plugins[name]
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, ErrNotRegistered)
	}
	return p, nil
}

// Names returns the registered module names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
