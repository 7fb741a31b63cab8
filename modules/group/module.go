package group

import (
	"context"

	"github.com/vk/plugtree/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Handle exposes a group's resolved children to its parent.
type Handle struct {
	Children map[string]any
}

// Init collects the already initialized children. A group takes no
// config of its own.
func Init(_ context.Context, _ any, children map[string]any) (any, error) {
	return &Handle{Children: children}, nil
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("group", &registry.Plugin{
		Description: "Structural container that exposes its children.",
		Init:        Init,
	})
}
