// SPDX-License-Identifier: MPL-2.0

package modulelist

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/dag"
	"github.com/bfw-systems/bfw/internal/observer"
	"github.com/bfw-systems/bfw/pkg/bfwmod"
)

type (
	// Options configures a List.
	Options struct {
		// ModulesDir holds one directory per module.
		ModulesDir string
		// ConfigDir holds one optional config directory per module.
		ConfigDir string
		// Lenient drops dependencies on unregistered modules with a warning
		// instead of failing with DependencyNotFoundError.
		Lenient bool
		// Logger receives discovery and resolution messages. Discarded when nil.
		Logger *log.Logger
		// Subject receives discover_module_<name> actions. A private subject
		// is created when nil.
		Subject *observer.Subject
	}

	// List is the module registry.
	List struct {
		modulesDir string
		configDir  string
		lenient    bool
		logger     *log.Logger
		subject    *observer.Subject

		modules map[string]*Module
		order   []string
		graph   *Graph
		tree    LoadTree
	}
)

// New creates an empty List.
func New(opts Options) *List {
	l := &List{
		modulesDir: opts.ModulesDir,
		configDir:  opts.ConfigDir,
		lenient:    opts.Lenient,
		logger:     opts.Logger,
		subject:    opts.Subject,
		modules:    make(map[string]*Module),
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	if l.subject == nil {
		l.subject = &observer.Subject{}
	}
	return l
}

// Subject returns the subject notified by the list.
func (l *List) Subject() *observer.Subject {
	return l.subject
}

// AddModule registers name if absent and returns the module. Registering a
// known name returns the existing module unchanged.
func (l *List) AddModule(name string) *Module {
	if m, ok := l.modules[name]; ok {
		return m
	}

	var dir, cfgDir string
	if l.modulesDir != "" {
		dir = filepath.Join(l.modulesDir, name)
	}
	if l.configDir != "" {
		cfgDir = filepath.Join(l.configDir, name)
	}
	return l.register(NewModule(name, dir, cfgDir))
}

// AddModules registers every name in order.
func (l *List) AddModules(names ...string) {
	for _, name := range names {
		l.AddModule(name)
	}
}

// AddLoadedModule registers a module with an in-memory descriptor and no
// directory. It is already loaded. A known name returns the existing module.
func (l *List) AddLoadedModule(name string, desc *bfwmod.Descriptor) *Module {
	if m, ok := l.modules[name]; ok {
		return m
	}
	if desc == nil {
		desc = &bfwmod.Descriptor{}
	}
	m := &Module{name: name, descriptor: desc, status: StatusLoaded}
	return l.register(m)
}

func (l *List) register(m *Module) *Module {
	l.modules[m.name] = m
	l.order = append(l.order, m.name)
	m.changed = l.invalidate
	l.invalidate()

	l.logger.Debug("module declared", "name", m.name)
	l.subject.Notify("discover_module_"+m.name, m)
	return m
}

// invalidate drops the previous build.
func (l *List) invalidate() {
	l.graph = nil
	l.tree = nil
}

// GetModuleForName returns the registered module or *NotFoundError.
func (l *List) GetModuleForName(name string) (*Module, error) {
	m, ok := l.modules[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return m, nil
}

// HasModule reports whether name is registered.
func (l *List) HasModule(name string) bool {
	_, ok := l.modules[name]
	return ok
}

// Names returns the module names in registration order.
func (l *List) Names() []string {
	return slices.Clone(l.order)
}

// Modules returns the modules in registration order.
func (l *List) Modules() []*Module {
	out := make([]*Module, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.modules[name])
	}
	return out
}

// Len returns the number of registered modules.
func (l *List) Len() int {
	return len(l.order)
}

// ReadNeedMeDependencies loads every module that is not loaded yet and builds
// the dependency graph from their declarations.
//
// A module that needs itself fails with *dag.CycleError. A dependency on an
// unregistered module fails with *DependencyNotFoundError, or is dropped with
// a warning when the list is lenient.
func (l *List) ReadNeedMeDependencies() (*Graph, error) {
	g := newGraph()
	for _, name := range l.order {
		g.addModule(name)
	}

	for _, name := range l.order {
		m := l.modules[name]
		if err := m.Load(); err != nil {
			return nil, err
		}

		for _, dep := range m.Dependencies() {
			if dep == name {
				return nil, &dag.CycleError{Cycle: []string{name, name}}
			}
			if !l.HasModule(dep) {
				if !l.lenient {
					return nil, &DependencyNotFoundError{Module: name, Dependency: dep}
				}
				l.logger.Warn("ignoring unknown dependency", "module", name, "dependency", dep)
				continue
			}
			g.addEdge(name, dep)
		}
	}

	l.graph = g
	return g, nil
}

// Graph returns the graph from the last successful ReadNeedMeDependencies.
func (l *List) Graph() *Graph {
	return l.graph
}

// GenerateTree reads the dependencies and sorts the modules into layers.
// Every layer holds a single group. Cycles are reported as an error matching
// both ErrCyclicDependency and *dag.CycleError. On error no tree is kept.
func (l *List) GenerateTree() (LoadTree, error) {
	l.tree = nil

	g, err := l.ReadNeedMeDependencies()
	if err != nil {
		l.graph = nil
		return nil, asCyclic(err)
	}

	sorter := dag.New()
	// Nodes first, so ready modules keep registration order.
	for _, name := range g.order {
		sorter.AddNode(name)
	}
	for _, name := range g.order {
		for _, dep := range g.deps[name] {
			sorter.AddEdge(dep, name)
		}
	}

	layers, err := sorter.Layers()
	if err != nil {
		return nil, asCyclic(err)
	}

	tree := make(LoadTree, 0, len(layers))
	for _, names := range layers {
		tree = append(tree, Layer{Group(names)})
	}

	l.tree = tree
	l.logger.Debug("load tree generated", "layers", len(tree), "modules", tree.Len())
	return tree, nil
}

// GetLoadTree returns the last generated tree, nil before GenerateTree or
// after a failed build.
func (l *List) GetLoadTree() LoadTree {
	return l.tree
}

// asCyclic joins ErrCyclicDependency to a *dag.CycleError and returns other
// errors unchanged.
func asCyclic(err error) error {
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		return fmt.Errorf("%w: %w", ErrCyclicDependency, cycleErr)
	}
	return err
}
