// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the document model for resolved plugin configuration: a
// tree of nodes, each naming an implementation, carrying an optional config
// payload, and declaring named children in source order.
package config

import "fmt"

// Node is one plugin document node after substitution, expansion, and
// structural validation.
type Node struct {
	// Module names the implementation to resolve.
	Module string

	// Config is the raw config payload, nil when the document declares none.
	Config map[string]any

	// Plugins lists the named children in declaration order.
	Plugins []Child
}

// Child pairs a child name with its document node.
type Child struct {
	Name string
	Node *Node
}

// Validate checks the node against the structural contract: a present,
// non-empty module name and uniquely named, non-nil children. Trees built by
// Translate already satisfy it; hand-built trees are checked again at
// resolution time.
func (n *Node) Validate() error {
	if n == nil {
		return fmt.Errorf("nil document node: %w", ErrStructure)
	}
	if n.Module == "" {
		return fmt.Errorf("document node missing module name: %w", ErrStructure)
	}
	seen := make(map[string]bool, len(n.Plugins))
	for _, child := range n.Plugins {
		if child.Name == "" {
			return fmt.Errorf("module %q: child with empty name: %w", n.Module, ErrStructure)
		}
		if child.Node == nil {
			return fmt.Errorf("module %q: child %q has no document: %w", n.Module, child.Name, ErrStructure)
		}
		if seen[child.Name] {
			return fmt.Errorf("module %q: duplicate child name %q: %w", n.Module, child.Name, ErrStructure)
		}
		seen[child.Name] = true
	}
	return nil
}
