// Package loader turns a config reference into a single fully resolved
// YAML tree: template tokens are substituted before parsing, and every
// string leaf naming another config file is replaced by that file's
// parsed content.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vk/plugtree/config"
	"github.com/vk/plugtree/internal/ctxlog"
	"github.com/vk/plugtree/tmpl"
	"github.com/vk/plugtree/vars"
)

// maxIncludeDepth caps how deep config file references may nest before
// loading fails. Reference cycles hit the cap instead of looping.
const maxIncludeDepth = 64

// Loader expands config references into resolved YAML trees.
type Loader struct {
	table *vars.Table
}

// New creates a Loader that substitutes template tokens from table.
func New(table *vars.Table) *Loader {
	return &Loader{table: table}
}

// Load resolves ref into a single YAML node. Relative file refs are
// resolved against baseDir; refs inside a loaded file resolve against
// that file's directory.
func (l *Loader) Load(ctx context.Context, ref config.Ref, baseDir string) (*yaml.Node, error) {
	switch r := ref.(type) {
	case config.FileRef:
		return l.loadFile(ctx, string(r), baseDir, 0)
	case config.TextRef:
		node, err := l.parseText(string(r), "inline config")
		if err != nil {
			return nil, err
		}
		if err := l.expand(ctx, node, baseDir, 0); err != nil {
			return nil, err
		}
		return node, nil
	case config.DocRef:
		if err := l.expand(ctx, r.Doc, baseDir, 0); err != nil {
			return nil, err
		}
		return r.Doc, nil
	default:
		return nil, fmt.Errorf("unsupported config ref %T", ref)
	}
}

func (l *Loader) loadFile(ctx context.Context, path, baseDir string, depth int) (*yaml.Node, error) {
	if depth >= maxIncludeDepth {
		return nil, fmt.Errorf("%s: include depth exceeds %d, likely a reference cycle: %w", path, maxIncludeDepth, config.ErrParse)
	}

	resolved := path
	if !filepath.IsAbs(resolved) && baseDir != "" {
		resolved = filepath.Join(baseDir, resolved)
	}

	ctxlog.FromContext(ctx).Debug("Loading config file.", "path", resolved)

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", resolved, config.ErrNotFound)
		}
		return nil, fmt.Errorf("read config file %s: %w", resolved, err)
	}

	node, err := l.parseText(string(raw), resolved)
	if err != nil {
		return nil, err
	}
	if err := l.expand(ctx, node, filepath.Dir(resolved), depth+1); err != nil {
		return nil, err
	}
	return node, nil
}

// parseText substitutes template tokens in text and parses the result.
// origin names the source in errors, either a file path or "inline
// config".
func (l *Loader) parseText(text, origin string) (*yaml.Node, error) {
	substituted, err := tmpl.Substitute(text, l.table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(substituted), &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", origin, config.ErrParse, err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0], nil
	}
	// Empty input parses to a zero node; normalize to an explicit null.
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null"}, nil
}

// expand walks node in place, replacing every string value leaf that
// names a config file with that file's parsed content. Mapping keys are
// left untouched.
func (l *Loader) expand(ctx context.Context, node *yaml.Node, baseDir string, depth int) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if err := l.expand(ctx, child, baseDir, depth); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 1; i < len(node.Content); i += 2 {
			if err := l.expand(ctx, node.Content[i], baseDir, depth); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if node.Tag == "!!str" && config.IsConfigPath(node.Value) {
			loaded, err := l.loadFile(ctx, node.Value, baseDir, depth)
			if err != nil {
				return err
			}
			*node = *loaded
		}
	}
	return nil
}
