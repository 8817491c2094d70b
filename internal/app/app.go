package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/specialistvlad/algoharness/internal/algo"
	"github.com/specialistvlad/algoharness/internal/config"
	"github.com/specialistvlad/algoharness/internal/ctxlog"
	"github.com/specialistvlad/algoharness/internal/loader"
	"github.com/specialistvlad/algoharness/internal/logging"
	"github.com/specialistvlad/algoharness/internal/metrics"
	"github.com/specialistvlad/algoharness/internal/opener"
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/specialistvlad/algoharness/internal/runstore"
	"github.com/specialistvlad/algoharness/internal/workspace"
)

// ErrLedgerDisabled is returned by History when no ledger is configured.
var ErrLedgerDisabled = errors.New("run ledger is disabled: set ledger.path in the configuration")

// App encapsulates the dependencies of one invocation: its logger, registry,
// loader, workspace layout and the optional ledger and metrics recorder.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	closeLog func() error
	settings *config.Settings
	registry *registry.Registry
	loader   *loader.Loader
	layout   workspace.Layout
	ledger   *runstore.Store
	metrics  *metrics.Recorder

	// algoSource names where the Algo came from, for the ledger.
	algoSource string
}

// NewApp is the constructor for the application. It returns a fully
// initialized App instance with its own isolated logger and registry. When no
// modules are given the compiled-in core modules are registered.
func NewApp(ctx context.Context, outW io.Writer, settings *config.Settings, modules ...registry.Module) (*App, error) {
	a := &App{
		outW:     outW,
		settings: settings,
		registry: registry.New(),
		layout: workspace.Layout{
			Root:     settings.Workspace.Root,
			ModelDir: settings.Workspace.ModelDir,
			PredDir:  settings.Workspace.PredDir,
			DataDir:  settings.Workspace.DataDir,
		},
	}

	logSettings := settings.Log
	logSettings.File = a.resolve(logSettings.File)
	logger, closeLog := logging.New(logSettings, outW)
	a.logger, a.closeLog = logger, closeLog
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.", "file", logSettings.File)

	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(a.registry)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "units", a.registry.Units())

	if err := a.applyAliases(); err != nil {
		a.Close()
		return nil, err
	}

	searchPath := make([]string, len(settings.Plugins.SearchPath))
	for i, dir := range settings.Plugins.SearchPath {
		searchPath[i] = a.resolve(dir)
	}
	a.loader = loader.New(a.registry, loader.WithSearchPath(searchPath...))

	if settings.Ledger.Path != "" {
		store, err := runstore.Open(ctx, a.resolve(settings.Ledger.Path))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.ledger = store
		logger.Debug("Run ledger opened.", "path", a.resolve(settings.Ledger.Path))
	}
	if settings.Metrics.Textfile != "" {
		a.metrics = metrics.New()
	}

	return a, nil
}

func (a *App) applyAliases() error {
	aliases := []struct{ name, target string }{
		{opener.UnitName, a.settings.Plugins.Opener},
		{algo.UnitName, a.settings.Plugins.Algo},
	}
	for _, al := range aliases {
		if al.target == "" || al.target == al.name {
			continue
		}
		if err := a.registry.Alias(al.name, al.target); err != nil {
			return fmt.Errorf("plugins configuration: %w", err)
		}
		a.logger.Debug("Unit aliased.", "name", al.name, "target", al.target)
	}
	return nil
}

// resolve interprets p relative to the workspace root.
func (a *App) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.layout.Root, p)
}

// context attaches the logger and the workspace layout for collaborators.
func (a *App) context(ctx context.Context) context.Context {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return workspace.WithLayout(ctx, a.layout)
}

// Close releases the ledger and the log file.
func (a *App) Close() error {
	var errs []error
	if a.ledger != nil {
		errs = append(errs, a.ledger.Close())
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
	}
	return errors.Join(errs...)
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Layout returns the workspace layout.
func (a *App) Layout() workspace.Layout {
	return a.layout
}
