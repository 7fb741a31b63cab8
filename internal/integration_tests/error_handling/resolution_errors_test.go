package error_handling_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plugtree/engine"
	"github.com/vk/plugtree/internal/testutil"
	"github.com/vk/plugtree/registry"
	"github.com/vk/plugtree/schema"
)

// TestResolutionErrors_UnregisteredModule validates that a document asking
// for a module with no registered implementation fails and that the error
// names both the module and the plugin it was requested under.
func TestResolutionErrors_UnregisteredModule(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	mainYAML := `
module: root
plugins:
  mystery:
    module: not_compiled_in
`
	rec := &testutil.Recorder{}

	// --- Act ---
	result := testutil.RunResolution(t, testutil.Harness{
		Files:   map[string]string{"main.yaml": mainYAML},
		Modules: []registry.Module{rec.Module("root")},
	})

	// --- Assert ---
	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, registry.ErrNotRegistered)
	require.Contains(t, result.Err.Error(), `in plugin "mystery"`)
	require.Contains(t, result.Err.Error(), `module "not_compiled_in"`)
	require.Empty(t, rec.Calls(), "the parent must not initialize when a child fails")
}

// TestResolutionErrors_ConfigWithoutSchema validates that config values for a
// plugin that registered no schema fail in strict mode and only warn in
// lenient mode.
func TestResolutionErrors_ConfigWithoutSchema(t *testing.T) {
	t.Parallel()

	mainYAML := `
module: bare
config:
  surprise: value
`
	files := map[string]string{"main.yaml": mainYAML}

	t.Run("strict", func(t *testing.T) {
		t.Parallel()

		rec := &testutil.Recorder{}
		result := testutil.RunResolution(t, testutil.Harness{
			Files:   files,
			Modules: []registry.Module{rec.Module("bare")},
		})

		require.Error(t, result.Err)
		require.ErrorIs(t, result.Err, engine.ErrMissingConfigSchema)
		require.Contains(t, result.Err.Error(), `module "bare"`)
		require.Empty(t, rec.Calls())
	})

	t.Run("lenient", func(t *testing.T) {
		t.Parallel()

		rec := &testutil.Recorder{}
		result := testutil.RunResolution(t, testutil.Harness{
			Files:   files,
			Lenient: true,
			Modules: []registry.Module{rec.Module("bare")},
		})

		require.NoError(t, result.Err)
		require.Equal(t, []string{"bare"}, rec.Order())
		require.Contains(t, result.LogOutput, "no config schema is registered")

		calls := rec.Calls()
		require.Equal(t, map[string]any{"surprise": "value"}, calls[0].Config,
			"lenient mode should hand the raw config values to the init hook")
	})
}

// TestResolutionErrors_InvalidConfigValue validates that schema validation
// failures surface the offending key and the module they belong to.
func TestResolutionErrors_InvalidConfigValue(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	mainYAML := `
module: counter
config:
  count: three
`
	rec := &testutil.Recorder{}
	spec := &schema.Spec{Fields: []schema.Field{
		{Name: "count", Type: cty.Number, Required: true},
	}}

	// --- Act ---
	result := testutil.RunResolution(t, testutil.Harness{
		Files: map[string]string{"main.yaml": mainYAML},
		Modules: []registry.Module{
			&testutil.SimpleModule{Name: "counter", Plugin: rec.PluginWithSpec("counter", spec)},
		},
	})

	// --- Assert ---
	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, schema.ErrInvalidConfig)
	require.Contains(t, result.Err.Error(), `module "counter"`)
	require.Contains(t, result.Err.Error(), `config key "count"`)
	require.Contains(t, result.Err.Error(), "expected number, got string")
	require.Empty(t, rec.Calls())
}

// TestResolutionErrors_InitFailureStopsTree validates that an init hook
// returning an error aborts resolution and that ancestors never initialize.
func TestResolutionErrors_InitFailureStopsTree(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	mainYAML := `
module: root
plugins:
  flaky:
    module: broken
`
	rec := &testutil.Recorder{}
	initErr := errors.New("connection refused")
	broken := &testutil.SimpleModule{
		Name: "broken",
		Plugin: &registry.Plugin{
			Init: func(ctx context.Context, cfg any, children map[string]any) (any, error) {
				return nil, initErr
			},
		},
	}

	// --- Act ---
	result := testutil.RunResolution(t, testutil.Harness{
		Files:   map[string]string{"main.yaml": mainYAML},
		Modules: []registry.Module{rec.Module("root"), broken},
	})

	// --- Assert ---
	require.Error(t, result.Err)
	require.ErrorIs(t, result.Err, initErr)
	require.Contains(t, result.Err.Error(), `in plugin "flaky"`)
	require.Contains(t, result.Err.Error(), `init of module "broken"`)
	require.Empty(t, rec.Calls(), "the root must not initialize after a child init fails")
	require.Nil(t, result.Resolved)
}

// TestResolutionErrors_DuplicateRegistrationPanics validates that the harness
// surfaces duplicate module registration as an error instead of crashing the
// test binary.
func TestResolutionErrors_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rec := &testutil.Recorder{}

	// --- Act ---
	result := testutil.RunResolution(t, testutil.Harness{
		Files:   map[string]string{"main.yaml": "module: dup\n"},
		Modules: []registry.Module{rec.Module("dup"), rec.Module("dup")},
	})

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "module registration panicked")
	require.Contains(t, result.Err.Error(), "already registered")
}
