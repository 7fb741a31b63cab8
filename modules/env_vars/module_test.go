package env_vars_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plugtree/modules/env_vars"
)

func TestInitCapturesPrefixedVariables(t *testing.T) {
	t.Setenv("PLUGTREE_TEST_ONE", "1")
	t.Setenv("PLUGTREE_TEST_TWO", "2")
	t.Setenv("OTHER_TEST_VAR", "x")

	instance, err := env_vars.Init(context.Background(), &env_vars.Config{Prefix: "PLUGTREE_TEST_"}, nil)
	require.NoError(t, err)

	snap := instance.(*env_vars.Snapshot)
	assert.Equal(t, map[string]string{
		"PLUGTREE_TEST_ONE": "1",
		"PLUGTREE_TEST_TWO": "2",
	}, snap.Values)
}

func TestInitWithoutPrefixCapturesEverything(t *testing.T) {
	t.Setenv("SOME_UNFILTERED_VAR", "y")

	instance, err := env_vars.Init(context.Background(), &env_vars.Config{}, nil)
	require.NoError(t, err)

	snap := instance.(*env_vars.Snapshot)
	assert.Equal(t, "y", snap.Values["SOME_UNFILTERED_VAR"])
}
