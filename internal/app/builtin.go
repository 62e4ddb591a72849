// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/config"
	"github.com/bfw-systems/bfw/internal/discovery"
	"github.com/bfw-systems/bfw/internal/modulelist"
	"github.com/bfw-systems/bfw/internal/observer"
	"github.com/bfw-systems/bfw/internal/script"
)

// ErrCliFileNotFound is the sentinel wrapped by CliFileNotFoundError.
var ErrCliFileNotFound = errors.New("cli file not found")

type (
	// CliFileNotFoundError reports a cli file missing from the cli directory.
	CliFileNotFoundError struct {
		Name string
		Path string
	}

	// status implements the IsInit/IsRun half of System.
	status struct {
		initDone bool
		runDone  bool
	}

	// ConfigSystem loads the framework configuration during Init.
	ConfigSystem struct {
		status
		provider config.Provider
		opts     config.LoadOptions
		cfg      *config.Config
	}

	// ModuleListSystem discovers the modules and builds the load tree.
	ModuleListSystem struct {
		status
		list        *modulelist.List
		modulesDir  string
		logger      *log.Logger
		diagnostics []discovery.Diagnostic
	}

	// CliSystem runs one script of the cli directory.
	CliSystem struct {
		status
		dir      string
		file     string
		args     []string
		rootDir  string
		path     string
		executor *script.Executor
		subject  *observer.Subject
	}
)

func (s *status) IsInit() bool { return s.initDone }
func (s *status) IsRun() bool  { return s.runDone }

func (e *CliFileNotFoundError) Error() string {
	return fmt.Sprintf("cli file %q not found at %s", e.Name, e.Path)
}

// Unwrap returns ErrCliFileNotFound for errors.Is checks.
func (e *CliFileNotFoundError) Unwrap() error { return ErrCliFileNotFound }

// Init loads the configuration.
func (s *ConfigSystem) Init(ctx context.Context) error {
	cfg, err := s.provider.Load(ctx, s.opts)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.initDone = true
	return nil
}

// ToRun is false: the configuration has nothing to run.
func (s *ConfigSystem) ToRun() bool { return false }

// Run does nothing.
func (s *ConfigSystem) Run(context.Context) error { return nil }

// Config returns the loaded configuration, nil before Init.
func (s *ConfigSystem) Config() *config.Config { return s.cfg }

// Init marks the system ready.
func (s *ModuleListSystem) Init(context.Context) error {
	s.initDone = true
	return nil
}

// ToRun is always true.
func (s *ModuleListSystem) ToRun() bool { return true }

// Run registers the modules found in the modules directory and generates
// the load tree.
func (s *ModuleListSystem) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := discovery.ScanModules(s.modulesDir)
	s.diagnostics = res.Diagnostics
	for _, d := range res.Diagnostics {
		if d.Severity == discovery.SeverityError {
			if d.Cause == nil {
				return fmt.Errorf("scan modules: %s", d.Message)
			}
			return fmt.Errorf("scan modules: %s: %w", d.Message, d.Cause)
		}
		s.logger.Warn(d.Message, "code", d.Code)
	}

	s.list.AddModules(res.Names...)
	if _, err := s.list.GenerateTree(); err != nil {
		return err
	}
	s.runDone = true
	return nil
}

// List returns the module list.
func (s *ModuleListSystem) List() *modulelist.List { return s.list }

// Diagnostics returns the findings of the last scan.
func (s *ModuleListSystem) Diagnostics() []discovery.Diagnostic { return s.diagnostics }

// Init resolves the cli file when one was requested.
func (s *CliSystem) Init(context.Context) error {
	s.initDone = true
	if s.file == "" {
		return nil
	}

	clean := filepath.Clean(filepath.FromSlash(s.file))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return &CliFileNotFoundError{Name: s.file, Path: filepath.Join(s.dir, clean)}
	}
	path := filepath.Join(s.dir, clean)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return &CliFileNotFoundError{Name: s.file, Path: path}
	}
	s.path = path
	return nil
}

// ToRun reports whether a cli file was requested.
func (s *CliSystem) ToRun() bool { return s.path != "" }

// Run executes the cli file.
func (s *CliSystem) Run(ctx context.Context) error {
	s.subject.Notify("run_cli_file", s.path)
	err := s.executor.RunFile(ctx, script.Request{
		Path: s.path,
		Dir:  s.rootDir,
		Env:  map[string]string{"BFW_ROOT": s.rootDir},
		Args: s.args,
	})
	if err != nil {
		return err
	}
	s.runDone = true
	return nil
}
