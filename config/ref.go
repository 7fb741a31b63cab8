// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the reference taxonomy for configuration documents: a
// document is addressed by file path, carried inline as text, or handed over
// as an already-parsed tree.
package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// configSuffixes are the file name suffixes recognized as config file
// references.
var configSuffixes = []string{".yaml", ".yml"}

// Ref addresses a configuration document for the loader.
type Ref interface {
	ref()
}

// FileRef addresses a document by file path, resolved against the loader's
// base directory when relative.
type FileRef string

// TextRef carries a document inline as unparsed text.
type TextRef string

// DocRef carries an already-parsed document tree. The loader takes ownership
// of the tree: nested file references inside it are expanded in place.
type DocRef struct {
	Doc *yaml.Node
}

func (FileRef) ref() {}
func (TextRef) ref() {}
func (DocRef) ref()  {}

// RefFrom classifies a string as a file reference when it ends in a
// recognized config suffix, and as inline text otherwise.
func RefFrom(s string) Ref {
	if IsConfigPath(s) {
		return FileRef(s)
	}
	return TextRef(s)
}

// IsConfigPath reports whether s names a config file by suffix.
func IsConfigPath(s string) bool {
	for _, suffix := range configSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// Suffixes returns the recognized config file suffixes.
func Suffixes() []string {
	return append([]string(nil), configSuffixes...)
}
