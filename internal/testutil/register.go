package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/schema"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single plugin implementation.
type SimpleModule struct {
	Name   string
	Plugin *registry.Plugin
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Name != "" && m.Plugin != nil {
		r.Register(m.Name, m.Plugin)
	}
}

// InitCall records one plugin initialization observed by a Recorder.
type InitCall struct {
	Module   string
	Config   any
	Children map[string]any
}

// Recorder builds plugins whose init hooks record their calls, letting
// tests assert on initialization order and payloads.
type Recorder struct {
	mu    sync.Mutex
	calls []InitCall
}

// Plugin returns a schema-less implementation whose init hook records the
// call and returns "<module>-instance".
func (rec *Recorder) Plugin(module string) *registry.Plugin {
	return &registry.Plugin{
		Description: "records its init call",
		Init: func(ctx context.Context, cfg any, children map[string]any) (any, error) {
			rec.record(InitCall{Module: module, Config: cfg, Children: children})
			return module + "-instance", nil
		},
	}
}

// PluginWithSpec is like Plugin, but config blocks are validated against
// spec before the init hook sees them.
func (rec *Recorder) PluginWithSpec(module string, spec *schema.Spec) *registry.Plugin {
	p := rec.Plugin(module)
	p.ConfigSpec = spec
	return p
}

// Module bundles recording plugins for the given module names into a single
// registrable module.
func (rec *Recorder) Module(names ...string) registry.Module {
	return &recorderModule{rec: rec, names: names}
}

// Calls returns the recorded init calls in the order they happened.
func (rec *Recorder) Calls() []InitCall {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return slices.Clone(rec.calls)
}

// Order returns the module names of the recorded calls, in call order.
func (rec *Recorder) Order() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]string, len(rec.calls))
	for i, call := range rec.calls {
		out[i] = call.Module
	}
	return out
}

func (rec *Recorder) record(call InitCall) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.calls = append(rec.calls, call)
}

type recorderModule struct {
	rec   *Recorder
	names []string
}

func (m *recorderModule) Register(r *registry.Registry) {
	for _, name := range m.names {
		r.Register(name, m.rec.Plugin(name))
	}
}
