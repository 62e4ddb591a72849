// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/modulelist"
	"github.com/bfw-systems/bfw/internal/observer"
	"github.com/bfw-systems/bfw/internal/script"
	"github.com/bfw-systems/bfw/pkg/bfwmod"
)

var (
	// ErrNoLoadTree is returned by Run before the load tree was generated.
	ErrNoLoadTree = errors.New("load tree not generated")

	// ErrConfigFileConflict is the sentinel wrapped by ConfigFileConflictError.
	ErrConfigFileConflict = errors.New("config files share a name")
)

type (
	// Module is one module to install.
	Module struct {
		Name string
		Dir  string
		Info *bfwmod.InstallInfo
	}

	// Options configures a ModuleInstall.
	Options struct {
		// RootDir is exported to scripts as BFW_ROOT.
		RootDir string
		// ConfigDir receives the copied module config files (app/config).
		ConfigDir string
		// Executor runs install scripts. A silent executor is used when nil.
		Executor *script.Executor
		// Logger is discarded when nil.
		Logger *log.Logger
		// Subject receives install_module_<name>. Defaults to the list's subject.
		Subject *observer.Subject
	}

	// ConfigFileConflictError is returned when two declared config files would
	// be copied to the same name in the flat module config directory.
	ConfigFileConflictError struct {
		Module string
		File   string
		Other  string
	}

	// ModuleInstall installs the listed modules in load-tree order.
	ModuleInstall struct {
		list      *modulelist.List
		opts      Options
		toInstall map[string]*Module
		initDone  bool
		runDone   bool
	}
)

// NewModule reads the install info of the module in dir.
func NewModule(name, dir string) (*Module, error) {
	info, err := bfwmod.ParseInstallInfo(name, dir)
	if err != nil {
		return nil, err
	}
	return &Module{Name: name, Dir: dir, Info: info}, nil
}

// New creates a ModuleInstall over the load tree of list.
func New(list *modulelist.List, opts Options) *ModuleInstall {
	if opts.Executor == nil {
		opts.Executor = script.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Subject == nil {
		opts.Subject = list.Subject()
	}
	return &ModuleInstall{list: list, opts: opts, toInstall: make(map[string]*Module)}
}

// AddToList adds m to the modules to install, replacing an entry of the same name.
func (i *ModuleInstall) AddToList(m *Module) {
	i.toInstall[m.Name] = m
}

// GetListToInstall returns the names of the modules to install, sorted.
func (i *ModuleInstall) GetListToInstall() []string {
	names := make([]string, 0, len(i.toInstall))
	for name := range i.toInstall {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Init marks the system initialised.
func (i *ModuleInstall) Init(context.Context) error {
	i.initDone = true
	return nil
}

// IsInit reports whether Init ran.
func (i *ModuleInstall) IsInit() bool { return i.initDone }

// ToRun is always true: installation runs whenever the system is registered.
func (i *ModuleInstall) ToRun() bool { return true }

// IsRun reports whether Run completed.
func (i *ModuleInstall) IsRun() bool { return i.runDone }

// Run installs every listed module in load-tree order.
func (i *ModuleInstall) Run(ctx context.Context) error {
	tree := i.list.GetLoadTree()
	if tree == nil {
		return ErrNoLoadTree
	}

	i.opts.Logger.Info("read all modules to run install script")
	for _, name := range tree.Flatten() {
		m, ok := i.toInstall[name]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("install canceled before module %s: %w", name, err)
		}
		if err := i.installModule(ctx, m); err != nil {
			return fmt.Errorf("install module %s: %w", name, err)
		}
	}
	i.opts.Logger.Info("all modules have been read")

	i.runDone = true
	return nil
}

func (i *ModuleInstall) installModule(ctx context.Context, m *Module) error {
	i.opts.Subject.Notify("install_module_"+m.Name, m)
	i.opts.Logger.Info("read module", "name", m.Name)

	if err := i.installConfig(m); err != nil {
		return err
	}

	scripts := m.Info.InstallScript
	if len(scripts) == 0 {
		i.opts.Logger.Info("no script to run", "name", m.Name)
		return nil
	}

	env := map[string]string{
		"BFW_MODULE":     m.Name,
		"BFW_MODULE_DIR": m.Dir,
		"BFW_ROOT":       i.opts.RootDir,
	}
	for _, rel := range scripts {
		scriptPath, err := bfwmod.ResolveModuleFile(m.Name, m.Dir, path.Join(m.Info.SrcPath, rel))
		if err != nil {
			return err
		}
		i.opts.Logger.Debug("run install script", "name", m.Name, "script", rel)
		if err := i.opts.Executor.RunFile(ctx, script.Request{Path: scriptPath, Dir: m.Dir, Env: env}); err != nil {
			return err
		}
	}
	return nil
}

// installConfig copies the declared config files into <ConfigDir>/<module>/.
// The directory is flat, so two files with the same base name are rejected
// before anything is copied. Existing files are kept.
func (i *ModuleInstall) installConfig(m *Module) error {
	if len(m.Info.ConfigFiles) == 0 || i.opts.ConfigDir == "" {
		return nil
	}

	seen := make(map[string]string, len(m.Info.ConfigFiles))
	for _, file := range m.Info.ConfigFiles {
		base := filepath.Base(filepath.FromSlash(file))
		if other, ok := seen[base]; ok {
			return &ConfigFileConflictError{Module: m.Name, File: file, Other: other}
		}
		seen[base] = file
	}

	destDir := filepath.Join(i.opts.ConfigDir, m.Name)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	for _, file := range m.Info.ConfigFiles {
		src, err := bfwmod.ResolveModuleFile(m.Name, m.Dir, path.Join(m.Info.ConfigPath, file))
		if err != nil {
			return err
		}
		dest := filepath.Join(destDir, filepath.Base(filepath.FromSlash(file)))
		if _, err := os.Stat(dest); err == nil {
			i.opts.Logger.Debug("config file kept", "name", m.Name, "file", file)
			continue
		}

		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
		i.opts.Logger.Debug("config file copied", "name", m.Name, "file", file)
	}
	return nil
}

func (e *ConfigFileConflictError) Error() string {
	return fmt.Sprintf("module %s: config files %q and %q would both be installed as %s",
		e.Module, e.Other, e.File, filepath.Base(filepath.FromSlash(e.File)))
}

// Unwrap returns ErrConfigFileConflict for errors.Is checks.
func (e *ConfigFileConflictError) Unwrap() error { return ErrConfigFileConflict }
