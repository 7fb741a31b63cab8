package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/plugtree/internal/ctxlog"
)

// Validate performs a strict parity check between config schemas and Go
// config structs. It checks both the presence of config keys and the
// compatibility of their types.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		p := r.plugins[name]
		if p.NewConfig == nil {
			continue
		}

		cfgType := reflect.TypeOf(p.NewConfig())
		for cfgType != nil && cfgType.Kind() == reflect.Pointer {
			cfgType = cfgType.Elem()
		}
		if cfgType == nil || cfgType.Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("module '%s': NewConfig must produce a struct, got %v", name, cfgType))
			continue
		}

		goKeys := make(map[string]reflect.StructField)
		for i := 0; i < cfgType.NumField(); i++ {
			field := cfgType.Field(i)
			if !field.IsExported() {
				continue
			}
			tagName := strings.Split(field.Tag.Get("plug"), ",")[0]
			if tagName != "" && tagName != "-" {
				goKeys[tagName] = field
			}
		}

		if p.ConfigSpec == nil {
			if len(goKeys) > 0 {
				logger.Warn("Module registers a typed config struct but no config schema; its config block must stay empty.", "module", name)
			}
			continue
		}

		specKeys := make(map[string]struct{})
		for _, f := range p.ConfigSpec.Fields {
			specKeys[f.Name] = struct{}{}
		}

		// Check for presence mismatches
		for key := range goKeys {
			if _, ok := specKeys[key]; !ok {
				errs = append(errs, fmt.Sprintf("module '%s': Go struct has field for config key '%s' which is not declared in the schema", name, key))
			}
		}
		for key := range specKeys {
			if _, ok := goKeys[key]; !ok {
				errs = append(errs, fmt.Sprintf("module '%s': schema declares config key '%s' which is not found in the Go struct", name, key))
			}
		}

		// Check for type mismatches
		for _, f := range p.ConfigSpec.Fields {
			goField, ok := goKeys[f.Name]
			if !ok {
				continue // Already handled by presence check
			}

			if f.Type.Equals(cty.DynamicPseudoType) {
				logger.Warn("Schema declares a config key with type 'any', which disables static type checking. Consider using a specific type like 'string', 'number', or 'bool'.", "module", name, "key", f.Name)
				continue
			}
			if skipTypeCheck(goField.Type) {
				continue
			}

			goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("module '%s', key '%s': could not imply cty type from Go field type %s: %v", name, f.Name, goField.Type, err))
				continue
			}

			if !f.Type.Equals(goFieldType) {
				errs = append(errs, fmt.Sprintf("module '%s', key '%s': type mismatch. Schema requires '%s' but Go struct field '%s' provides '%s'",
					name, f.Name, f.Type.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// skipTypeCheck reports Go field types whose cty shape cannot be
// implied statically. Struct and interface fields are checked at decode
// time instead.
func skipTypeCheck(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Interface:
		return true
	case reflect.Map, reflect.Slice:
		return skipTypeCheck(t.Elem())
	}
	return false
}
