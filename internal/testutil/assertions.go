package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertModuleResolved checks the log output within a HarnessResult to
// confirm that a plugin of the given module was loaded. It abstracts the
// underlying log format, making tests more resilient to internal
// refactoring.
func AssertModuleResolved(t *testing.T, result *HarnessResult, module string) {
	t.Helper()

	expectedLogSubstring := fmt.Sprintf("module=%s", module)

	require.True(t,
		strings.Contains(result.LogOutput, expectedLogSubstring),
		"expected log output for module %q was not found in logs", module,
	)
}
