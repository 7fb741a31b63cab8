// Package schema describes the shape of a plugin's config block and
// validates raw config payloads against it. A plugin that registers a
// Spec gets its config checked and defaulted before its init hook runs;
// a plugin that registers a typed config struct additionally gets the
// payload decoded into it via Decode.
package schema

import (
	"github.com/zclconf/go-cty/cty"
)

// Field describes a single key accepted in a plugin's config block.
type Field struct {
	// Name is the key as it appears in the YAML config mapping.
	Name string

	// Type is the value type the key must carry.
	Type cty.Type

	// Description documents the key for registry listings.
	Description string

	// Required marks keys that must be present in the config.
	Required bool

	// Default is injected when an optional key is absent.
	Default *cty.Value

	// Integer restricts a number field to whole values.
	Integer bool

	// Min and Max bound a number field inclusively.
	Min *float64
	Max *float64
}

// Spec is the full set of keys a plugin accepts. Validation rejects
// keys not listed here.
type Spec struct {
	Fields []Field
}

func (s *Spec) field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Bound returns a pointer to v, for use as a Field's Min or Max.
func Bound(v float64) *float64 { return &v }

// DefaultVal returns a pointer to v, for use as a Field's Default.
func DefaultVal(v cty.Value) *cty.Value { return &v }
