// Package engine resolves a validated config tree into live plugin
// instances, initializing children before their parent.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/plugtree/config"
	"github.com/vk/plugtree/internal/ctxlog"
	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/schema"
)

// ErrMissingConfigSchema reports a plugin that was given config values
// without registering a schema to validate them against.
var ErrMissingConfigSchema = errors.New("plugin config is not empty, but no config schema is registered")

// Resolved is one node of an instantiated plugin tree.
type Resolved struct {
	// Instance is whatever the plugin's init hook returned.
	Instance any

	// Node is the config node this plugin was built from.
	Node *config.Node

	// Children holds the resolved subtrees, keyed by plugin name.
	Children map[string]*Resolved
}

// Engine turns config trees into plugin instances.
type Engine struct {
	registry *registry.Registry
	lenient  bool
}

// New creates an Engine resolving module names against reg. In lenient
// mode, config values for a plugin without a schema produce a warning
// instead of an error.
func New(reg *registry.Registry, lenient bool) *Engine {
	return &Engine{registry: reg, lenient: lenient}
}

// Resolve builds the plugin instance for node and, recursively, for all
// of its children. Children are initialized before their parent, in
// declaration order, and their instances are handed to the parent's
// init hook keyed by plugin name.
func (e *Engine) Resolve(ctx context.Context, node *config.Node) (*Resolved, error) {
	if err := node.Validate(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("▶️ Loading plugin module.", "module", node.Module)

	impl, err := e.registry.Resolve(node.Module)
	if err != nil {
		return nil, err
	}

	cfg, err := e.pluginConfig(ctx, node, impl)
	if err != nil {
		return nil, err
	}

	children := make(map[string]*Resolved, len(node.Plugins))
	instances := make(map[string]any, len(node.Plugins))
	for _, child := range node.Plugins {
		resolved, err := e.Resolve(ctx, child.Node)
		if err != nil {
			return nil, fmt.Errorf("in plugin %q: %w", child.Name, err)
		}
		children[child.Name] = resolved
		instances[child.Name] = resolved.Instance
	}

	logger.Info("🚀 Initializing plugin.", "module", node.Module)
	instance, err := impl.Init(ctx, cfg, instances)
	if err != nil {
		return nil, fmt.Errorf("init of module %q: %w", node.Module, err)
	}
	logger.Debug("✅ Plugin initialized.", "module", node.Module)

	return &Resolved{Instance: instance, Node: node, Children: children}, nil
}

// pluginConfig validates the node's config block against the plugin's
// schema and decodes it into the plugin's typed config struct when one
// is registered.
func (e *Engine) pluginConfig(ctx context.Context, node *config.Node, impl *registry.Plugin) (any, error) {
	raw := node.Config

	if impl.ConfigSpec == nil {
		if len(raw) > 0 {
			if !e.lenient {
				return nil, fmt.Errorf("module %q: %w", node.Module, ErrMissingConfigSchema)
			}
			ctxlog.FromContext(ctx).Warn("Plugin config is not empty, but no config schema is registered.", "module", node.Module)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		return e.decodeInto(impl, raw, node.Module)
	}

	validated, err := impl.ConfigSpec.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("module %q: %w", node.Module, err)
	}
	return e.decodeInto(impl, validated, node.Module)
}

func (e *Engine) decodeInto(impl *registry.Plugin, cfg map[string]any, module string) (any, error) {
	if impl.NewConfig == nil {
		return cfg, nil
	}
	out := impl.NewConfig()
	if err := schema.Decode(cfg, out); err != nil {
		return nil, fmt.Errorf("module %q: decode config: %w", module, err)
	}
	return out, nil
}
