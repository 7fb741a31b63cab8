package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/schema"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config defines the config block for the env_vars plugin.
type Config struct {
	Prefix string `plug:"prefix"`
}

// Snapshot holds the environment captured at init time.
type Snapshot struct {
	Values map[string]string
}

// Init captures the process environment, optionally filtered by prefix.
func Init(_ context.Context, cfg any, _ map[string]any) (any, error) {
	c := cfg.(*Config)

	values := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 {
			continue
		}
		if c.Prefix != "" && !strings.HasPrefix(pair[0], c.Prefix) {
			continue
		}
		values[pair[0]] = pair[1]
	}
	return &Snapshot{Values: values}, nil
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("env_vars", &registry.Plugin{
		Description: "Captures the process environment as a plugin instance.",
		ConfigSpec: &schema.Spec{Fields: []schema.Field{
			{Name: "prefix", Type: cty.String, Description: "Only capture variables with this prefix.", Default: schema.DefaultVal(cty.StringVal(""))},
		}},
		NewConfig: func() any { return new(Config) },
		Init:      Init,
	})
}
