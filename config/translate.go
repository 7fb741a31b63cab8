// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file translates parsed document trees into the typed node model,
// enforcing the structural contract every plugin node must satisfy. The
// contract is fixed for the whole process: a node is a mapping holding a
// required "module" string, an optional "config" mapping, and an optional
// "plugins" mapping of uniquely named nested nodes.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Translate converts a parsed document tree into a Node, validating the
// structural contract at every level. Children keep the declaration order of
// the source document.
func Translate(doc *yaml.Node) (*Node, error) {
	return translate(doc, "root")
}

func translate(doc *yaml.Node, path string) (*Node, error) {
	doc = unwrap(doc)
	if isNull(doc) {
		return nil, fmt.Errorf("%s: empty document: %w", path, ErrStructure)
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: plugin node must be a mapping, got %s: %w", path, kindName(doc), ErrStructure)
	}

	node := &Node{}
	seen := make(map[string]bool, 3)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode := doc.Content[i]
		valNode := unwrap(doc.Content[i+1])

		if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
			return nil, fmt.Errorf("%s: mapping keys must be strings: %w", path, ErrStructure)
		}
		key := keyNode.Value
		if seen[key] {
			return nil, fmt.Errorf("%s: duplicate key %q: %w", path, key, ErrStructure)
		}
		seen[key] = true

		switch key {
		case "module":
			if valNode.Kind != yaml.ScalarNode || valNode.Tag != "!!str" || valNode.Value == "" {
				return nil, fmt.Errorf("%s: module must be a non-empty string: %w", path, ErrStructure)
			}
			node.Module = valNode.Value
		case "config":
			cfg, err := translateConfig(valNode, path)
			if err != nil {
				return nil, err
			}
			node.Config = cfg
		case "plugins":
			children, err := translatePlugins(valNode, path)
			if err != nil {
				return nil, err
			}
			node.Plugins = children
		default:
			return nil, fmt.Errorf("%s: unknown key %q, expected module, config or plugins: %w", path, key, ErrStructure)
		}
	}
	if node.Module == "" {
		return nil, fmt.Errorf("%s: missing required key %q: %w", path, "module", ErrStructure)
	}
	return node, nil
}

// translateConfig decodes a node's config payload into a native map. An
// explicit null counts as an absent payload.
func translateConfig(valNode *yaml.Node, path string) (map[string]any, error) {
	if isNull(valNode) {
		return nil, nil
	}
	if valNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: config must be a mapping, got %s: %w", path, kindName(valNode), ErrStructure)
	}
	var cfg map[string]any
	if err := valNode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: config: %w: %v", path, ErrStructure, err)
	}
	return cfg, nil
}

// translatePlugins walks a node's children in declaration order. Every child
// must be a mapping by the time translation runs; nested file references were
// already expanded by the loader.
func translatePlugins(valNode *yaml.Node, path string) ([]Child, error) {
	if isNull(valNode) {
		return nil, nil
	}
	if valNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: plugins must be a mapping of name to plugin node, got %s: %w", path, kindName(valNode), ErrStructure)
	}

	children := make([]Child, 0, len(valNode.Content)/2)
	seen := make(map[string]bool, len(valNode.Content)/2)
	for i := 0; i+1 < len(valNode.Content); i += 2 {
		keyNode := valNode.Content[i]
		childNode := unwrap(valNode.Content[i+1])

		if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" || keyNode.Value == "" {
			return nil, fmt.Errorf("%s: plugin names must be non-empty strings: %w", path, ErrStructure)
		}
		name := keyNode.Value
		if seen[name] {
			return nil, fmt.Errorf("%s: duplicate plugin name %q: %w", path, name, ErrStructure)
		}
		seen[name] = true

		childPath := path + ".plugins." + name
		if childNode.Kind == yaml.ScalarNode && childNode.Tag == "!!str" {
			return nil, fmt.Errorf("%s: plugin reference must be a mapping or a config file path, got string %q: %w", childPath, childNode.Value, ErrStructure)
		}
		child, err := translate(childNode, childPath)
		if err != nil {
			return nil, err
		}
		children = append(children, Child{Name: name, Node: child})
	}
	return children, nil
}

// unwrap steps through document framing and alias indirection to the node
// that carries the value.
func unwrap(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	if n == nil || n.Kind == 0 {
		return true
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) == 0 {
		return true
	}
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
