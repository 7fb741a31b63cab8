package file_writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plugtree/internal/ctxlog"
	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/schema"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config defines the config block for the file_writer plugin.
type Config struct {
	Path    string `plug:"path"`
	Content string `plug:"content"`
}

// Handle exposes the written file's path to parent plugins.
type Handle struct {
	Path string
}

// Init writes the configured content to the configured path, creating
// parent directories as needed.
func Init(ctx context.Context, cfg any, _ map[string]any) (any, error) {
	c := cfg.(*Config)
	ctxlog.FromContext(ctx).Info("Writing file.", "path", c.Path, "bytes", len(c.Content))

	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create parent directory for %s: %w", c.Path, err)
	}
	if err := os.WriteFile(c.Path, []byte(c.Content), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", c.Path, err)
	}
	return &Handle{Path: c.Path}, nil
}

// Register registers the plugin with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register("file_writer", &registry.Plugin{
		Description: "Writes configured content to a file on init.",
		ConfigSpec: &schema.Spec{Fields: []schema.Field{
			{Name: "path", Type: cty.String, Description: "Destination file path.", Required: true},
			{Name: "content", Type: cty.String, Description: "Content to write.", Default: schema.DefaultVal(cty.StringVal(""))},
		}},
		NewConfig: func() any { return new(Config) },
		Init:      Init,
	})
}
