// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package config

import "errors"

// Errors reported while expanding and validating configuration documents.
var (
	// ErrNotFound reports a file reference that does not resolve to an
	// existing file.
	ErrNotFound = errors.New("config file not found")

	// ErrParse reports text that could not be parsed into a document tree.
	ErrParse = errors.New("config parse error")

	// ErrStructure reports a document that does not satisfy the structural
	// contract for plugin nodes.
	ErrStructure = errors.New("invalid config structure")
)
