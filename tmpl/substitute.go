// Package tmpl implements the single-pass token substitution that runs over
// raw configuration text before parsing.
package tmpl

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vk/plugtree/vars"
)

// ErrMissingVariable is returned when the text references a token with no
// table entry.
var ErrMissingVariable = errors.New("missing template variable")

// tokenPattern matches one template token: a '$', an identifier of uppercase
// letters, digits and underscores, and a closing '$'.
var tokenPattern = regexp.MustCompile(`\$[A-Z_0-9]+\$`)

// Tokens returns the distinct template variable names referenced in text,
// sorted, without their '$' delimiters.
func Tokens(text string) []string {
	return distinctNames(tokenPattern.FindAllString(text, -1))
}

// Substitute replaces every template token in text with its table value and
// marks each consumed name used. Replacement is one literal pass over the
// original text: values that themselves contain token syntax are not
// substituted again. Text without tokens is returned unchanged, even with a
// nil table.
func Substitute(text string, table *vars.Table) (string, error) {
	tokens := tokenPattern.FindAllString(text, -1)
	if len(tokens) == 0 {
		return text, nil
	}

	values := make(map[string]string, len(tokens))
	for _, name := range distinctNames(tokens) {
		value, ok := table.Lookup(name)
		if !ok {
			return "", fmt.Errorf("token $%s$ near %q: %w", name, contextAround(text, "$"+name+"$"), ErrMissingVariable)
		}
		if err := table.MarkUsed(name); err != nil {
			return "", err
		}
		values[name] = value
	}

	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		return values[vars.Normalize(token)]
	}), nil
}

// distinctNames reduces raw token matches to sorted unique bare names, so
// lookups and failures happen in a deterministic order.
func distinctNames(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var names []string
	for _, token := range tokens {
		name := vars.Normalize(token)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// contextAround extracts the line holding the first occurrence of token,
// trimmed and truncated to keep error messages on a single line.
func contextAround(text, token string) string {
	idx := strings.Index(text, token)
	if idx < 0 {
		return ""
	}
	start := strings.LastIndexByte(text[:idx], '\n') + 1
	end := strings.IndexByte(text[idx:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += idx
	}
	line := strings.TrimSpace(text[start:end])
	const maxContext = 80
	if len(line) > maxContext {
		line = line[:maxContext] + "..."
	}
	return line
}
