// Package app ties an engine per open document to a dispatcher system
// and the Lua runtime. It is what the gridstorm command drives.
package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/plugin/lua"
)

// Application is the central coordinator for gridstorm components.
// It owns the open documents and routes actions and scripts to the
// active one.
type Application struct {
	mu sync.Mutex

	config    config.Config
	documents *DocumentManager
	system    *dispatcher.System
	runner    *lua.Runner
	bound     *Document

	shutdown atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses
	// defaults and environment overrides only.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath.
	Config *config.Config

	// ReadOnly opens documents in read-only mode.
	ReadOnly bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	var cfg config.Config
	if opts.Config != nil {
		cfg = *opts.Config
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
	}
	cfg.Apply()

	engineOpts := cfg.EngineOptions()
	if opts.ReadOnly {
		engineOpts = append(engineOpts, engine.WithReadOnly())
	}

	app := &Application{
		config:    cfg,
		documents: NewDocumentManager(engineOpts...),
		system:    dispatcher.NewSystem(cfg.SystemConfig()),
	}
	app.system.Start()
	return app, nil
}

// Config returns the loaded configuration.
func (app *Application) Config() config.Config {
	return app.config
}

// Documents returns the document manager.
func (app *Application) Documents() *DocumentManager {
	return app.documents
}

// System returns the dispatcher system.
func (app *Application) System() *dispatcher.System {
	return app.system
}

// Open opens the document at path and makes it active.
func (app *Application) Open(path string) (*Document, error) {
	if app.shutdown.Load() {
		return nil, ErrShutdown
	}
	doc, err := app.documents.Open(path)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("app: opened %s (%s)", doc.Path, doc.Format)
	return doc, nil
}

// NewScratch creates an untitled document holding a rows x cols table and
// makes it active.
func (app *Application) NewScratch(rows, cols int, headerRow bool) (*Document, error) {
	if app.shutdown.Load() {
		return nil, ErrShutdown
	}
	return app.documents.CreateScratch(rows, cols, headerRow)
}

// bindActive points the dispatcher at the active document's engine.
// Callers hold app.mu.
func (app *Application) bindActive() (*Document, error) {
	if app.shutdown.Load() {
		return nil, ErrShutdown
	}
	doc := app.documents.Active()
	if doc == nil {
		return nil, ErrNoActiveDocument
	}
	if app.bound != doc {
		app.system.SetEngine(doc.Engine)
		app.bound = doc
	}
	return doc, nil
}

// Select selects the cells from (r1, c1) to (r2, c2) of the tableIndex'th
// table of the active document. Equal corners place a cursor in the cell.
func (app *Application) Select(tableIndex, r1, c1, r2, c2 int) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	doc, err := app.bindActive()
	if err != nil {
		return err
	}
	if r1 == r2 && c1 == c2 {
		return doc.Engine.CursorIn(tableIndex, r1, c1)
	}
	return doc.Engine.SelectCells(tableIndex, r1, c1, r2, c2)
}

// Dispatch runs action against the active document.
func (app *Application) Dispatch(ctx context.Context, action input.Action) handler.Result {
	app.mu.Lock()
	defer app.mu.Unlock()

	if _, err := app.bindActive(); err != nil {
		return handler.Error(err)
	}
	return app.system.DispatchContext(ctx, action)
}

// DispatchBatch runs actions in order against the active document.
func (app *Application) DispatchBatch(ctx context.Context, actions []input.Action, stopOnError bool) ([]handler.Result, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if _, err := app.bindActive(); err != nil {
		return nil, err
	}
	return app.system.DispatchBatchContext(ctx, actions, stopOnError), nil
}

// Check reports whether action would apply to the active document.
func (app *Application) Check(action input.Action) handler.Result {
	app.mu.Lock()
	defer app.mu.Unlock()

	if _, err := app.bindActive(); err != nil {
		return handler.Error(err)
	}
	return app.system.Check(action)
}

// RunScript executes the Lua script at path against the active document.
// All edits the script makes undo as one step.
func (app *Application) RunScript(ctx context.Context, path string) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	doc, err := app.bindActive()
	if err != nil {
		return err
	}
	if app.runner == nil {
		app.runner = lua.NewRunner(app.system, app.config.LuaOptions()...)
	}

	doc.Engine.BeginUndoGroup("script " + path)
	err = app.runner.RunFile(ctx, path)
	doc.Engine.EndUndoGroup()
	if err != nil {
		return NewOperationError("script", path, err)
	}
	return nil
}

// Shutdown stops the dispatcher and releases the script state. Unsaved
// changes are reported but not written.
func (app *Application) Shutdown() error {
	if !app.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.runner != nil {
		_ = app.runner.Close()
		app.runner = nil
	}
	app.system.Stop()

	if dirty := app.documents.DirtyDocuments(); len(dirty) > 0 {
		for _, doc := range dirty {
			glog.Warningf("app: %s has unsaved changes", doc.Name)
		}
		return ErrUnsavedChanges
	}
	return nil
}
