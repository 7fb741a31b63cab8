package cli_behavior_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/plugtree/internal/app"
)

// TestCheckMode_RelativePathAgainstBaseDir validates that check mode accepts
// a single config file given as a path relative to the configured base
// directory and reports a per-file verdict for it.
func TestCheckMode_RelativePathAgainstBaseDir(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	mainYAML := "module: print\nconfig:\n  values:\n    k: v\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "main.yaml"), []byte(mainYAML), 0o644))

	appConfig := &app.Config{
		ConfigPath: "main.yaml",
		BaseDir:    tempDir,
		Check:      true,
	}
	application, output := app.SetupAppTest(t, appConfig)

	// --- Act ---
	runErr := application.Run(context.Background())

	// --- Assert ---
	require.NoError(t, runErr)
	require.Contains(t, output.String(), "OK   main.yaml")
}

// TestCheckMode_ReportsStructureFailure validates that a config file failing
// structural validation produces a FAIL verdict and a summary error.
func TestCheckMode_ReportsStructureFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("plugins: {}\n"), 0o644))

	appConfig := &app.Config{
		ConfigPath: badPath,
		Check:      true,
	}
	application, output := app.SetupAppTest(t, appConfig)

	// --- Act ---
	runErr := application.Run(context.Background())

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "1 of 1 config files failed validation")
	require.Contains(t, output.String(), "FAIL "+badPath)
}
