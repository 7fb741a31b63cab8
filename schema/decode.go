package schema

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var ctyValueType = reflect.TypeOf(cty.Value{})

// Decode populates a typed config struct from a validated config map.
// Struct fields opt in with a `plug:"key"` tag; untagged fields are
// left untouched, as are fields whose key is absent from the map.
func Decode(cfg map[string]any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", out)
	}
	if rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct, got %T", out)
	}

	obj, err := nativeToCty(cfg)
	if err != nil {
		return err
	}
	return decodeStruct(obj, rv.Elem())
}

func decodeStruct(obj cty.Value, target reflect.Value) error {
	if obj.IsNull() || !obj.IsKnown() {
		return nil
	}
	ty := obj.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return fmt.Errorf("cannot decode %s into struct %s", ty.FriendlyName(), target.Type())
	}
	attrs := obj.AsValueMap()

	t := target.Type()
	for i := 0; i < t.NumField(); i++ {
		key, ok := t.Field(i).Tag.Lookup("plug")
		if !ok || key == "" || key == "-" {
			continue
		}
		av, ok := attrs[key]
		if !ok {
			continue
		}
		if err := decodeValue(av, target.Field(i)); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

func decodeValue(val cty.Value, target reflect.Value) error {
	if target.Type() == ctyValueType {
		target.Set(reflect.ValueOf(val))
		return nil
	}
	if val.IsNull() || !val.IsKnown() {
		return nil
	}

	switch target.Kind() {
	case reflect.Pointer:
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}
		return decodeValue(val, target.Elem())
	case reflect.Struct:
		return decodeStruct(val, target)
	case reflect.Interface:
		native, err := ctyToNative(val)
		if err != nil {
			return err
		}
		if native != nil {
			target.Set(reflect.ValueOf(native))
		}
		return nil
	case reflect.Map:
		return decodeMap(val, target)
	case reflect.Slice:
		return decodeSlice(val, target)
	default:
		want, err := gocty.ImpliedType(target.Interface())
		if err != nil {
			return fmt.Errorf("unsupported target type %s: %w", target.Type(), err)
		}
		converted, err := convert.Convert(val, want)
		if err != nil {
			return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), target.Type(), err)
		}
		return gocty.FromCtyValue(converted, target.Addr().Interface())
	}
}

func decodeMap(val cty.Value, target reflect.Value) error {
	ty := val.Type()
	if !ty.IsMapType() && !ty.IsObjectType() {
		return fmt.Errorf("cannot decode %s into map %s", ty.FriendlyName(), target.Type())
	}
	t := target.Type()
	if t.Key().Kind() != reflect.String {
		return fmt.Errorf("map target must have string keys, got %s", t.Key())
	}
	out := reflect.MakeMapWithSize(t, val.LengthInt())

	// Fast path for map[string]any: hand back plain Go values.
	if t.Elem().Kind() == reflect.Interface && t.Elem().NumMethod() == 0 {
		native, err := ctyToNative(val)
		if err != nil {
			return err
		}
		for k, v := range native.(map[string]any) {
			ev := reflect.Zero(t.Elem())
			if v != nil {
				ev = reflect.ValueOf(v)
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
		}
		target.Set(out)
		return nil
	}

	for it := val.ElementIterator(); it.Next(); {
		kv, ev := it.Element()
		elem := reflect.New(t.Elem()).Elem()
		if err := decodeValue(ev, elem); err != nil {
			return fmt.Errorf("key %q: %w", kv.AsString(), err)
		}
		out.SetMapIndex(reflect.ValueOf(kv.AsString()).Convert(t.Key()), elem)
	}
	target.Set(out)
	return nil
}

func decodeSlice(val cty.Value, target reflect.Value) error {
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return fmt.Errorf("cannot decode %s into slice %s", ty.FriendlyName(), target.Type())
	}
	t := target.Type()
	out := reflect.MakeSlice(t, 0, val.LengthInt())
	i := 0
	for it := val.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		elem := reflect.New(t.Elem()).Elem()
		if err := decodeValue(ev, elem); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
		out = reflect.Append(out, elem)
		i++
	}
	target.Set(out)
	return nil
}
