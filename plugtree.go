// Package plugtree loads declarative YAML plugin trees and resolves
// them into live plugin instances.
//
// A config document names a module, optionally carries a config block
// validated against the module's registered schema, and optionally
// nests further plugin documents under "plugins". Documents may
// reference each other by config file path and may contain $NAME$
// template tokens substituted from a caller-supplied variable table
// before parsing.
package plugtree

import (
	"context"
	"log/slog"

	"github.com/vk/plugtree/config"
	"github.com/vk/plugtree/engine"
	"github.com/vk/plugtree/internal/ctxlog"
	"github.com/vk/plugtree/loader"
	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/vars"
)

// Options adjusts how config documents are loaded and resolved.
type Options struct {
	// Vars supplies values for $NAME$ template tokens. Keys may be
	// given bare ("NAME") or delimited ("$NAME$").
	Vars map[string]string

	// BaseDir anchors relative config file references in the top-level
	// document. Nested references resolve against the directory of the
	// file that contains them.
	BaseDir string

	// LenientSchema downgrades config-without-schema errors to
	// warnings.
	LenientSchema bool

	// Registry supplies the plugin implementations. LoadConfig ignores
	// it.
	Registry *registry.Registry

	// Logger receives progress and warning logs. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// LoadConfig resolves ref into a config tree: template tokens are
// substituted, file references expanded, and the document structure
// validated. No plugins are instantiated.
func LoadConfig(ctx context.Context, ref config.Ref, opts *Options) (*config.Node, error) {
	opts = withDefaults(opts)
	ctx = withLogger(ctx, opts)

	table, err := vars.New(opts.Vars)
	if err != nil {
		return nil, err
	}
	node, err := loadTree(ctx, ref, table, opts)
	if err != nil {
		return nil, err
	}
	warnUnused(ctx, table)
	return node, nil
}

// LoadPlugin loads the config tree behind ref and resolves it into
// live plugin instances, children before parents. Template variables
// that were supplied but never used are logged as warnings once the
// whole tree has resolved.
func LoadPlugin(ctx context.Context, ref config.Ref, opts *Options) (*engine.Resolved, error) {
	opts = withDefaults(opts)
	ctx = withLogger(ctx, opts)

	table, err := vars.New(opts.Vars)
	if err != nil {
		return nil, err
	}
	node, err := loadTree(ctx, ref, table, opts)
	if err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}
	resolved, err := engine.New(reg, opts.LenientSchema).Resolve(ctx, node)
	if err != nil {
		return nil, err
	}
	warnUnused(ctx, table)
	return resolved, nil
}

func loadTree(ctx context.Context, ref config.Ref, table *vars.Table, opts *Options) (*config.Node, error) {
	doc, err := loader.New(table).Load(ctx, ref, opts.BaseDir)
	if err != nil {
		return nil, err
	}
	return config.Translate(doc)
}

func withDefaults(opts *Options) *Options {
	if opts == nil {
		return &Options{}
	}
	return opts
}

func withLogger(ctx context.Context, opts *Options) context.Context {
	if opts.Logger != nil {
		return ctxlog.WithLogger(ctx, opts.Logger)
	}
	return ctx
}

// warnUnused logs one warning per supplied template variable that no
// document mentioned. Callers invoke it only after a successful load.
func warnUnused(ctx context.Context, table *vars.Table) {
	logger := ctxlog.FromContext(ctx)
	for _, name := range table.Unused() {
		logger.Warn("Template variable was never used.", "name", name)
	}
}
