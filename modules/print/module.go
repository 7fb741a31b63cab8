package print

import (
	"context"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plugtree/internal/ctxlog"
	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/schema"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config defines the config block for the print plugin.
type Config struct {
	Prefix string            `plug:"prefix"`
	Values map[string]string `plug:"values"`
}

// Handle is the instance a resolved print plugin exposes to its parent.
type Handle struct {
	Config *Config
}

// Init prints the configured values to stdout.
func Init(ctx context.Context, cfg any, _ map[string]any) (any, error) {
	c := cfg.(*Config)
	ctxlog.FromContext(ctx).Info("Printing values.", "count", len(c.Values))

	// Sort keys for consistent output
	keys := make([]string, 0, len(c.Values))
	for k := range c.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("%s%s = %q\n", c.Prefix, k, c.Values[k])
	}
	return &Handle{Config: c}, nil
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("print", &registry.Plugin{
		Description: "Prints its configured values to stdout.",
		ConfigSpec: &schema.Spec{Fields: []schema.Field{
			{Name: "prefix", Type: cty.String, Description: "Text prepended to every printed line.", Default: schema.DefaultVal(cty.StringVal(""))},
			{Name: "values", Type: cty.Map(cty.String), Description: "Key/value pairs to print."},
		}},
		NewConfig: func() any { return new(Config) },
		Init:      Init,
	})
}
