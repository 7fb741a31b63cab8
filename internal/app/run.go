package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/plugtree"
	"github.com/vk/plugtree/config"
	"github.com/vk/plugtree/internal/ctxlog"
	"github.com/vk/plugtree/internal/fsutil"
	"github.com/vk/plugtree/loader"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.logger.Info("Plugin implementations registered:", "count", len(a.registry.Names()), "modules", a.registry.Names())

	switch {
	case a.config.ListVars:
		return a.listVars()
	case a.config.Check:
		return a.checkConfigs(ctx)
	default:
		return a.resolve(ctx)
	}
}

// resolve loads the root config document and instantiates its plugin tree.
func (a *App) resolve(ctx context.Context) error {
	a.logger.Info("🚀 Starting plugin resolution...", "path", a.config.ConfigPath)

	if _, err := plugtree.LoadPlugin(ctx, config.FileRef(a.config.ConfigPath), a.loadOptions()); err != nil {
		return fmt.Errorf("plugin resolution failed: %w", err)
	}

	a.logger.Info("🏁 Plugin tree resolved.")
	return nil
}

// listVars prints every template variable mentioned by the root config
// or the config files it references, one per line.
func (a *App) listVars() error {
	names, err := loader.ScanVariables(a.rootPath())
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(a.outW, name)
	}
	return nil
}

// checkConfigs loads config files without initializing plugins and
// reports a per-file verdict. When ConfigPath is a directory, every
// config file under it is checked.
func (a *App) checkConfigs(ctx context.Context) error {
	paths := []string{a.config.ConfigPath}
	baseDir := a.config.BaseDir

	if info, err := os.Stat(a.rootPath()); err == nil && info.IsDir() {
		found, err := fsutil.FindFilesByExtension(a.rootPath(), config.Suffixes()...)
		if err != nil {
			return err
		}
		paths = found
		baseDir = ""
	}

	failures := 0
	for _, path := range paths {
		opts := a.loadOptions()
		opts.BaseDir = baseDir
		if _, err := plugtree.LoadConfig(ctx, config.FileRef(path), opts); err != nil {
			failures++
			fmt.Fprintf(a.outW, "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(a.outW, "OK   %s\n", path)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d config files failed validation", failures, len(paths))
	}
	a.logger.Info("✅ All config files passed.", "count", len(paths))
	return nil
}

// rootPath resolves ConfigPath against BaseDir the same way the loader
// resolves the top-level file reference.
func (a *App) rootPath() string {
	if filepath.IsAbs(a.config.ConfigPath) || a.config.BaseDir == "" {
		return a.config.ConfigPath
	}
	return filepath.Join(a.config.BaseDir, a.config.ConfigPath)
}

func (a *App) loadOptions() *plugtree.Options {
	return &plugtree.Options{
		Vars:          a.config.Vars,
		BaseDir:       a.config.BaseDir,
		LenientSchema: a.config.LenientSchema,
		Registry:      a.registry,
		Logger:        a.logger,
	}
}
