// SPDX-License-Identifier: MPL-2.0

package modulelist

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bfw-systems/bfw/internal/config"
	"github.com/bfw-systems/bfw/pkg/bfwmod"
)

const (
	// StatusUnloaded is the state of a freshly registered module.
	StatusUnloaded Status = iota
	// StatusLoaded means the descriptor and config files were read.
	StatusLoaded
	// StatusRun means the lifecycle callback was invoked.
	StatusRun
)

type (
	// Status is a module lifecycle state. Transitions only move forward:
	// unloaded, loaded, run.
	Status int

	// Module is one registered module.
	Module struct {
		name       string
		dir        string
		configDir  string
		descriptor *bfwmod.Descriptor
		config     *config.ModuleFiles
		extraDeps  []string
		status     Status
		// changed is set by the owning List to drop its build.
		changed func()
	}
)

func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoaded:
		return "loaded"
	case StatusRun:
		return "run"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// NewModule creates an unloaded module. configDir may be empty when the
// module has no config directory.
func NewModule(name, dir, configDir string) *Module {
	return &Module{name: name, dir: dir, configDir: configDir}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Dir returns the module directory ("" for modules registered with a descriptor).
func (m *Module) Dir() string { return m.dir }

// ConfigDir returns the module config directory.
func (m *Module) ConfigDir() string { return m.configDir }

// Descriptor returns the decoded module.json, nil before Load.
func (m *Module) Descriptor() *bfwmod.Descriptor { return m.descriptor }

// Config returns the module config files, nil before Load.
func (m *Module) Config() *config.ModuleFiles { return m.config }

// Status returns the lifecycle state.
func (m *Module) Status() Status { return m.status }

// IsLoaded reports whether the module reached StatusLoaded or later.
func (m *Module) IsLoaded() bool { return m.status >= StatusLoaded }

// IsRun reports whether the module reached StatusRun.
func (m *Module) IsRun() bool { return m.status == StatusRun }

// Load reads module.json and the config directory. Loading twice is a no-op.
func (m *Module) Load() error {
	if m.IsLoaded() {
		return nil
	}

	desc, err := bfwmod.ParseDescriptor(m.name, m.dir)
	if err != nil {
		return err
	}

	files := &config.ModuleFiles{}
	if m.configDir != "" {
		if files, err = config.LoadModuleFiles(m.configDir); err != nil {
			return fmt.Errorf("module %q: %w", m.name, err)
		}
	}

	m.descriptor = desc
	m.config = files
	m.status = StatusLoaded
	return nil
}

// MarkRun moves a loaded module to StatusRun. Marking a module that already
// ran is a no-op.
func (m *Module) MarkRun() error {
	switch m.status {
	case StatusRun:
		return nil
	case StatusLoaded:
		m.status = StatusRun
		return nil
	default:
		return &InvalidTransitionError{Module: m.name, From: m.status, To: StatusRun}
	}
}

// AddDependency appends a dependency at runtime, on top of module.json. For a
// module owned by a List, the list's graph and load tree are dropped until
// the next GenerateTree.
func (m *Module) AddDependency(name string) {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(m.extraDeps, name) {
		return
	}
	m.extraDeps = append(m.extraDeps, name)
	if m.changed != nil {
		m.changed()
	}
}

// Dependencies returns needMe, then require, then runtime dependencies,
// without duplicates.
func (m *Module) Dependencies() []string {
	var deps []string
	if m.descriptor != nil {
		deps = m.descriptor.Dependencies()
	}
	for _, dep := range m.extraDeps {
		if !slices.Contains(deps, dep) {
			deps = append(deps, dep)
		}
	}
	return deps
}

// RunnerPath returns the absolute runner script path, or "" when the module
// declares none. The module must be loaded.
func (m *Module) RunnerPath() (string, error) {
	if !m.IsLoaded() {
		return "", &InvalidTransitionError{Module: m.name, From: m.status, To: StatusRun}
	}
	if m.dir == "" {
		return "", nil
	}
	return bfwmod.ResolveRunner(m.name, m.dir, m.descriptor)
}

// ScriptEnv returns the environment given to the module's scripts.
func (m *Module) ScriptEnv() map[string]string {
	return map[string]string{
		"BFW_MODULE":            m.name,
		"BFW_MODULE_DIR":        m.dir,
		"BFW_MODULE_CONFIG_DIR": m.configDir,
	}
}
