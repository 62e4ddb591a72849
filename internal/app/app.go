// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/config"
	"github.com/bfw-systems/bfw/internal/install"
	"github.com/bfw-systems/bfw/internal/modulelist"
	"github.com/bfw-systems/bfw/internal/observer"
	"github.com/bfw-systems/bfw/internal/runner"
	"github.com/bfw-systems/bfw/internal/script"
	"github.com/bfw-systems/bfw/pkg/bfwmod"
)

const (
	// TasksSubject is the subject list name of the run steps subject.
	TasksSubject = "ApplicationTasks"
	// TasksPrefix prefixes the run steps tokens.
	TasksPrefix = "BfwApp"
)

// Application is one configured framework instance.
type Application struct {
	opts     Options
	paths    Paths
	cfg      *config.Config
	logger   *log.Logger
	reporter Reporter

	subjects *observer.List
	tasks    *observer.RunTasks
	systems  *Systems
	list     *modulelist.List
	runner   *runner.Runner
	state    State
}

// New loads the configuration, builds the systems and declares the run steps.
func New(ctx context.Context, opts Options) (*Application, error) {
	if opts.RootDir == "" {
		return nil, errors.New("application root directory is required")
	}
	if opts.ConfigProvider == nil {
		opts.ConfigProvider = config.NewProvider()
	}

	a := &Application{
		opts:     opts,
		subjects: observer.NewList(),
		tasks:    observer.NewRunTasks(TasksPrefix),
		systems:  NewSystems(),
	}
	a.subjects.Add(TasksSubject, &a.tasks.Subject)
	for _, o := range opts.Observers {
		a.tasks.Attach(o)
	}

	cfgSys := &ConfigSystem{
		provider: opts.ConfigProvider,
		opts:     config.LoadOptions{ConfigFilePath: opts.ConfigFile, RootDir: opts.RootDir},
	}
	a.systems.Register(SystemConfig, cfgSys)
	if err := cfgSys.Init(ctx); err != nil {
		return nil, err
	}
	a.cfg = cfgSys.Config()
	a.paths = NewPaths(opts.RootDir, a.cfg)

	a.logger = opts.Logger
	if a.logger == nil {
		a.logger = NewLogger(opts.Stderr, a.cfg.Log)
	}
	a.reporter = opts.Reporter
	if a.reporter == nil {
		a.reporter = LogReporter{Logger: a.logger}
	}

	subject := &a.tasks.Subject
	executor := script.New(script.WithStdio(opts.Stdin, opts.Stdout, opts.Stderr))

	a.list = modulelist.New(modulelist.Options{
		ModulesDir: a.paths.Modules,
		ConfigDir:  a.paths.Config,
		Lenient:    !a.cfg.Dependencies.Strict,
		Logger:     a.logger,
		Subject:    subject,
	})
	a.systems.Register(SystemModuleList, &ModuleListSystem{
		list:       a.list,
		modulesDir: a.paths.Modules,
		logger:     a.logger,
	})

	a.runner = runner.New(a.list, runner.Options{
		RootDir:  opts.RootDir,
		Executor: executor,
		Logger:   a.logger,
		Subject:  subject,
	})
	for name, hook := range opts.Hooks {
		a.runner.Register(name, hook)
	}
	for name, hook := range opts.LoadHooks {
		a.runner.RegisterLoad(name, hook)
	}

	switch opts.Mode {
	case ModeInstall:
		a.systems.Register(SystemModuleInstall, install.New(a.list, install.Options{
			RootDir:   opts.RootDir,
			ConfigDir: a.paths.Config,
			Executor:  executor,
			Logger:    a.logger,
			Subject:   subject,
		}))
		a.tasks.AddStep("loadAllModules", a.loadAllModules)
		a.tasks.AddStep("installAllModules", a.installAllModules)
	default:
		a.systems.Register(SystemCli, &CliSystem{
			dir:      a.paths.Cli,
			file:     opts.CliFile,
			args:     opts.CliArgs,
			rootDir:  opts.RootDir,
			executor: executor,
			subject:  subject,
		})
		a.tasks.AddStep("loadAllModules", a.loadAllModules)
		a.tasks.AddStep("runAllCoreModules", a.runAllCoreModules)
		a.tasks.AddStep("runAllAppModules", a.runAllAppModules)
		a.tasks.AddStep("runCliFile", a.runCliFile)
	}

	if err := a.systems.InitAll(ctx); err != nil {
		return nil, err
	}
	a.state = StateInitialized
	return a, nil
}

// Run executes the run steps once, then notifies bfw_run_done. A failure is
// handed to the Reporter and returned.
func (a *Application) Run(ctx context.Context) error {
	if a.state != StateInitialized {
		return &InvalidStateError{Value: a.state}
	}
	a.state = StateRunning
	a.logger.Debug("running framework", "mode", a.opts.Mode, "steps", a.tasks.StepNames())

	if err := a.tasks.Run(ctx); err != nil {
		a.state = StateFailed
		a.logger.Debug("run stopped", "last_action", a.tasks.LastAction().Name)
		a.reporter.Report(err)
		return err
	}

	a.tasks.SendNotify("bfw_run_done")
	a.state = StateDone
	return nil
}

// Build discovers the modules and generates the load tree without running
// anything. It is used by read-only commands such as "bfw tree".
func (a *Application) Build(ctx context.Context) error {
	return a.systems.RunSystem(ctx, SystemModuleList)
}

func (a *Application) loadAllModules(ctx context.Context) error {
	if err := a.systems.RunSystem(ctx, SystemModuleList); err != nil {
		return err
	}
	return a.runner.LoadAll(ctx)
}

func (a *Application) runAllCoreModules(ctx context.Context) error {
	return a.runner.RunCoreModules(ctx, a.cfg.EnabledModules())
}

func (a *Application) runAllAppModules(ctx context.Context) error {
	return a.runner.RunAll(ctx)
}

func (a *Application) runCliFile(ctx context.Context) error {
	return a.systems.RunSystem(ctx, SystemCli)
}

func (a *Application) installAllModules(ctx context.Context) error {
	inst, err := lookupAs[*install.ModuleInstall](a.systems, SystemModuleInstall)
	if err != nil {
		return err
	}

	for _, m := range a.list.Modules() {
		if m.Dir() == "" {
			continue
		}
		entry, err := install.NewModule(m.Name(), m.Dir())
		if errors.Is(err, bfwmod.ErrDescriptorNotFound) {
			a.logger.Debug("module has no install info", "name", m.Name())
			continue
		}
		if err != nil {
			return fmt.Errorf("read install info: %w", err)
		}
		inst.AddToList(entry)
	}

	return a.systems.RunSystem(ctx, SystemModuleInstall)
}

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// Paths returns the application directories.
func (a *Application) Paths() Paths { return a.paths }

// Logger returns the framework logger.
func (a *Application) Logger() *log.Logger { return a.logger }

// ModuleList returns the module registry.
func (a *Application) ModuleList() *modulelist.List { return a.list }

// Runner returns the module runner, to register hooks before Run.
func (a *Application) Runner() *runner.Runner { return a.runner }

// Systems returns the core systems registry.
func (a *Application) Systems() *Systems { return a.systems }

// Subjects returns the named subjects.
func (a *Application) Subjects() *observer.List { return a.subjects }

// Tasks returns the run steps sequencer.
func (a *Application) Tasks() *observer.RunTasks { return a.tasks }

// State returns the lifecycle state.
func (a *Application) State() State { return a.state }
