package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrInvalidConfig reports a config payload that does not satisfy the
// plugin's declared schema.
var ErrInvalidConfig = errors.New("invalid plugin config")

// Validate checks cfg against the spec and returns a copy with defaults
// injected for absent optional fields. The input map is not modified.
func (s *Spec) Validate(cfg map[string]any) (map[string]any, error) {
	var unknown []string
	for name := range cfg {
		if s.field(name) == nil {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown config keys %v: %w", unknown, ErrInvalidConfig)
	}

	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		raw, present := cfg[f.Name]
		if !present {
			if f.Required {
				return nil, fmt.Errorf("config key %q: required but missing: %w", f.Name, ErrInvalidConfig)
			}
			if f.Default != nil {
				native, err := ctyToNative(*f.Default)
				if err != nil {
					return nil, fmt.Errorf("config key %q: bad default: %v: %w", f.Name, err, ErrInvalidConfig)
				}
				out[f.Name] = native
			}
			continue
		}

		val, err := nativeToCty(raw)
		if err != nil {
			return nil, fmt.Errorf("config key %q: %v: %w", f.Name, err, ErrInvalidConfig)
		}
		if err := checkType(val, f.Type); err != nil {
			return nil, fmt.Errorf("config key %q: %v: %w", f.Name, err, ErrInvalidConfig)
		}
		if err := checkNumber(val, f); err != nil {
			return nil, fmt.Errorf("config key %q: %v: %w", f.Name, err, ErrInvalidConfig)
		}
		out[f.Name] = raw
	}
	return out, nil
}

// checkType verifies that val can serve as a value of the declared
// type. Primitive declarations must match exactly, so a YAML string is
// never accepted where a number or bool is declared. Collection
// declarations go through cty's conversion rules, letting the tuples
// and objects that YAML decoding produces satisfy list and map types.
func checkType(val cty.Value, want cty.Type) error {
	if want == cty.DynamicPseudoType || want == cty.NilType {
		return nil
	}
	if val.IsNull() {
		return fmt.Errorf("expected %s, got null", want.FriendlyName())
	}
	got := val.Type()
	if want.IsPrimitiveType() {
		if got != want {
			return fmt.Errorf("expected %s, got %s", want.FriendlyName(), got.FriendlyName())
		}
		return nil
	}
	if _, err := convert.Convert(val, want); err != nil {
		return fmt.Errorf("expected %s, got %s", want.FriendlyName(), got.FriendlyName())
	}
	return nil
}

// checkNumber enforces the Integer flag and the Min and Max bounds on
// number fields.
func checkNumber(val cty.Value, f Field) error {
	if val.IsNull() || val.Type() != cty.Number {
		return nil
	}
	bf := val.AsBigFloat()
	if f.Integer && !bf.IsInt() {
		return fmt.Errorf("expected a whole number, got %s", bf.String())
	}
	fv, _ := bf.Float64()
	if f.Min != nil && fv < *f.Min {
		return fmt.Errorf("value %s is below the minimum %v", bf.String(), *f.Min)
	}
	if f.Max != nil && fv > *f.Max {
		return fmt.Errorf("value %s is above the maximum %v", bf.String(), *f.Max)
	}
	return nil
}
