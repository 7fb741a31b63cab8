// Package vars holds the replacement values for template tokens and tracks
// which of them were consumed during a load.
package vars

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownVariable is returned when a name that was never provided is
// marked as used.
var ErrUnknownVariable = errors.New("unknown template variable")

// Table maps template variable names to their replacement values and records
// which names were consumed. Names are stored without the '$' delimiters.
// A Table is not safe for concurrent use; it is meant to be threaded through
// a single synchronous resolution call.
type Table struct {
	values map[string]string
	used   map[string]bool
}

// New builds a Table from the given mapping. Keys may be spelled bare
// ("NAME") or delimited ("$NAME$"); both normalize to the bare name, and two
// spellings of the same name are rejected. A nil or empty mapping yields an
// empty table.
func New(values map[string]string) (*Table, error) {
	t := &Table{
		values: make(map[string]string, len(values)),
		used:   make(map[string]bool, len(values)),
	}
	for key, value := range values {
		name := Normalize(key)
		if _, exists := t.values[name]; exists {
			return nil, fmt.Errorf("template variable %q provided more than once", name)
		}
		t.values[name] = value
	}
	return t, nil
}

// Normalize strips the optional '$' delimiters from a variable key.
func Normalize(key string) string {
	if len(key) > 1 && strings.HasPrefix(key, "$") && strings.HasSuffix(key, "$") {
		return key[1 : len(key)-1]
	}
	return key
}

// Lookup returns the value stored under name. A nil table holds no entries.
func (t *Table) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	value, ok := t.values[name]
	return value, ok
}

// MarkUsed records that name was consumed by a substitution. Marking a name
// that was never provided is an error.
func (t *Table) MarkUsed(name string) error {
	if t == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownVariable)
	}
	if _, ok := t.values[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownVariable)
	}
	t.used[name] = true
	return nil
}

// Unused returns the names never marked used, sorted for deterministic
// diagnostics.
func (t *Table) Unused() []string {
	if t == nil {
		return nil
	}
	var names []string
	for name := range t.values {
		if !t.used[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len reports how many variables the table holds.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values)
}
