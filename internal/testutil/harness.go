package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/plugtree"
	"github.com/vk/plugtree/config"
	"github.com/vk/plugtree/engine"
	"github.com/vk/plugtree/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness describes one resolution scenario: config files to lay out in a
// temporary directory, the entry file to resolve, and the modules available
// while resolving it.
type Harness struct {
	// Files maps relative paths to config file contents. Subdirectories in
	// the paths are created as needed.
	Files map[string]string

	// Entry is the relative path of the config file to resolve. It may be
	// omitted when Files holds exactly one entry.
	Entry string

	// Vars supplies values for template tokens in the config files.
	Vars map[string]string

	// Lenient downgrades config-without-schema errors to warnings.
	Lenient bool

	// Modules are registered before resolution starts.
	Modules []registry.Module
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Resolved  *engine.Resolved
}

// RunResolution provides a standardized harness for running integration tests
// using a default background context.
func RunResolution(t *testing.T, h Harness) *HarnessResult {
	t.Helper()
	return RunResolutionWithContext(context.Background(), t, h)
}

// RunResolutionWithContext provides a standardized harness for running
// integration tests with a specific context provided by the caller.
func RunResolutionWithContext(ctx context.Context, t *testing.T, h Harness) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir, err := os.MkdirTemp("", ".tmp-resolution-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	// 2. Write all config files to the temporary directory. The test provides
	//    relative paths (e.g. "nested/child.yaml"), which naturally creates
	//    the subdirectory structure within the root tmpDir.
	for name, content := range h.Files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	entry := h.Entry
	if entry == "" && len(h.Files) == 1 {
		for name := range h.Files {
			entry = name
		}
	}
	require.NotEmpty(t, entry, "harness needs an entry config path")

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// 3. Register the provided test modules. Registration panics on
	//    duplicate names, so recover and surface that as the run error.
	reg := registry.New()
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("PLUGTREE_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		for _, m := range h.Modules {
			m.Register(reg)
		}
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("module registration panicked | %v", panicErr),
		}
	}

	resolved, runErr := plugtree.LoadPlugin(ctx, config.FileRef(entry), &plugtree.Options{
		Vars:          h.Vars,
		BaseDir:       tmpDir,
		LenientSchema: h.Lenient,
		Registry:      reg,
		Logger:        logger,
	})

	if os.Getenv("PLUGTREE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		Resolved:  resolved,
	}
}
