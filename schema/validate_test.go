package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/plugtree/schema"
)

func probeSpec() *schema.Spec {
	return &schema.Spec{Fields: []schema.Field{
		{Name: "url", Type: cty.String, Required: true},
		{Name: "timeout", Type: cty.String, Default: schema.DefaultVal(cty.StringVal("10s"))},
		{Name: "expect_status", Type: cty.Number, Integer: true, Min: schema.Bound(100), Max: schema.Bound(599), Default: schema.DefaultVal(cty.NumberIntVal(200))},
		{Name: "headers", Type: cty.Map(cty.String)},
		{Name: "tags", Type: cty.List(cty.String)},
		{Name: "verbose", Type: cty.Bool},
		{Name: "extra", Type: cty.DynamicPseudoType},
	}}
}

func TestValidate_DefaultsInjected(t *testing.T) {
	t.Parallel()

	in := map[string]any{"url": "http://localhost"}
	out, err := probeSpec().Validate(in)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost", out["url"])
	assert.Equal(t, "10s", out["timeout"])
	assert.Equal(t, 200, out["expect_status"])
	assert.NotContains(t, out, "headers")

	// The caller's map is left alone.
	assert.Len(t, in, 1)
}

func TestValidate_RequiredMissing(t *testing.T) {
	t.Parallel()

	_, err := probeSpec().Validate(map[string]any{})
	require.ErrorIs(t, err, schema.ErrInvalidConfig)
	assert.Contains(t, err.Error(), `"url"`)
	assert.Contains(t, err.Error(), "required")
}

func TestValidate_UnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := probeSpec().Validate(map[string]any{
		"url":    "http://localhost",
		"zzz":    1,
		"aaa":    2,
		"middle": 3,
	})
	require.ErrorIs(t, err, schema.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "[aaa middle zzz]")
}

func TestValidate_TypeMismatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  map[string]any
	}{
		{"string where number", map[string]any{"url": "u", "expect_status": "200"}},
		{"number where string", map[string]any{"url": 42}},
		{"string where bool", map[string]any{"url": "u", "verbose": "true"}},
		{"null where string", map[string]any{"url": nil}},
		{"string where map", map[string]any{"url": "u", "headers": "nope"}},
		{"string where list", map[string]any{"url": "u", "tags": "nope"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := probeSpec().Validate(tc.cfg)
			assert.ErrorIs(t, err, schema.ErrInvalidConfig)
		})
	}
}

func TestValidate_Collections(t *testing.T) {
	t.Parallel()

	out, err := probeSpec().Validate(map[string]any{
		"url":     "u",
		"headers": map[string]any{"Accept": "text/plain"},
		"tags":    []any{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Accept": "text/plain"}, out["headers"])
	assert.Equal(t, []any{"a", "b"}, out["tags"])
}

func TestValidate_NumberConstraints(t *testing.T) {
	t.Parallel()

	ok := map[string]any{"url": "u", "expect_status": 204}
	_, err := probeSpec().Validate(ok)
	require.NoError(t, err)

	for name, status := range map[string]any{
		"fractional": 200.5,
		"below min":  99,
		"above max":  600,
	} {
		_, err := probeSpec().Validate(map[string]any{"url": "u", "expect_status": status})
		assert.ErrorIs(t, err, schema.ErrInvalidConfig, name)
	}
}

func TestValidate_DynamicFieldAcceptsAnything(t *testing.T) {
	t.Parallel()

	for _, extra := range []any{nil, "str", 7, true, map[string]any{"k": "v"}, []any{1, "x"}} {
		_, err := probeSpec().Validate(map[string]any{"url": "u", "extra": extra})
		assert.NoError(t, err)
	}
}

func TestValidate_EmptySpecRejectsEverything(t *testing.T) {
	t.Parallel()

	s := &schema.Spec{}
	out, err := s.Validate(map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = s.Validate(map[string]any{"anything": 1})
	assert.ErrorIs(t, err, schema.ErrInvalidConfig)
}
