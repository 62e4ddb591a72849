// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/modulelist"
	"github.com/bfw-systems/bfw/internal/observer"
	"github.com/bfw-systems/bfw/internal/script"
)

// ErrNoLoadTree is returned when a walk starts before the tree was generated.
var ErrNoLoadTree = errors.New("load tree not generated")

type (
	// Hook is a lifecycle callback supplied by Go code.
	Hook func(ctx context.Context, m *modulelist.Module) error

	// Options configures a Runner.
	Options struct {
		// RootDir is exported to scripts as BFW_ROOT.
		RootDir string
		// Executor runs runner scripts. A silent executor is used when nil.
		Executor *script.Executor
		// Logger is discarded when nil.
		Logger *log.Logger
		// Subject receives the lifecycle actions. Defaults to the list's subject.
		Subject *observer.Subject
	}

	// Runner invokes module lifecycle callbacks.
	Runner struct {
		list      *modulelist.List
		rootDir   string
		executor  *script.Executor
		logger    *log.Logger
		subject   *observer.Subject
		runHooks  map[string]Hook
		loadHooks map[string]Hook
	}
)

// New creates a Runner over list.
func New(list *modulelist.List, opts Options) *Runner {
	r := &Runner{
		list:      list,
		rootDir:   opts.RootDir,
		executor:  opts.Executor,
		logger:    opts.Logger,
		subject:   opts.Subject,
		runHooks:  make(map[string]Hook),
		loadHooks: make(map[string]Hook),
	}
	if r.executor == nil {
		r.executor = script.New()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	if r.subject == nil {
		r.subject = list.Subject()
	}
	return r
}

// Register sets the run callback of a module. It replaces the module's
// runner script.
func (r *Runner) Register(name string, hook Hook) {
	r.runHooks[name] = hook
}

// RegisterLoad sets a callback invoked right after the module is loaded.
func (r *Runner) RegisterLoad(name string, hook Hook) {
	r.loadHooks[name] = hook
}

// LoadAll loads every module of the tree in walk order.
func (r *Runner) LoadAll(ctx context.Context) error {
	tree := r.list.GetLoadTree()
	if tree == nil {
		return ErrNoLoadTree
	}

	for _, layer := range tree {
		for _, group := range layer {
			for _, name := range group {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("load canceled before module %s: %w", name, err)
				}
				if err := r.loadModule(ctx, name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Runner) loadModule(ctx context.Context, name string) error {
	m, err := r.list.GetModuleForName(name)
	if err != nil {
		return err
	}

	r.subject.Notify("load_module_"+name, m)
	if err := m.Load(); err != nil {
		return err
	}
	r.logger.Debug("module loaded", "name", name)

	if hook, ok := r.loadHooks[name]; ok {
		return hook(ctx, m)
	}
	return nil
}

// RunModule invokes the run callback of a loaded module. Calling it again
// for a module that already ran does nothing. Callback errors are returned
// unchanged.
func (r *Runner) RunModule(ctx context.Context, name string) error {
	m, err := r.list.GetModuleForName(name)
	if err != nil {
		return err
	}
	if m.IsRun() {
		r.logger.Debug("module already run", "name", name)
		return nil
	}

	callback, err := r.callbackFor(m)
	if err != nil {
		return err
	}
	// Marked before the callback so a callback reaching back here is a no-op.
	if err := m.MarkRun(); err != nil {
		return err
	}

	r.subject.Notify("run_module_"+name, m)
	r.logger.Debug("run module", "name", name)

	if callback == nil {
		return nil
	}
	return callback(ctx, m)
}

// callbackFor returns the Go hook of m, else its runner script, else nil.
// A declared runner that does not exist is an error.
func (r *Runner) callbackFor(m *modulelist.Module) (Hook, error) {
	if hook, ok := r.runHooks[m.Name()]; ok {
		return hook, nil
	}

	path, err := m.RunnerPath()
	if err != nil || path == "" {
		return nil, err
	}
	return func(ctx context.Context, m *modulelist.Module) error {
		env := m.ScriptEnv()
		env["BFW_ROOT"] = r.rootDir
		return r.executor.RunFile(ctx, script.Request{
			Path: path,
			Dir:  m.Dir(),
			Env:  env,
		})
	}, nil
}

// RunAll runs every module of the tree in walk order, then notifies
// run_modules_done. The first failure stops the walk.
func (r *Runner) RunAll(ctx context.Context) error {
	tree := r.list.GetLoadTree()
	if tree == nil {
		return ErrNoLoadTree
	}

	for _, name := range tree.Flatten() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled before module %s: %w", name, err)
		}
		if err := r.RunModule(ctx, name); err != nil {
			return err
		}
	}

	r.subject.Notify("run_modules_done", nil)
	return nil
}

// RunCoreModules runs the named modules in the given order, ahead of the
// tree walk. Names must be registered.
func (r *Runner) RunCoreModules(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled before core module %s: %w", name, err)
		}
		if err := r.RunModule(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
