// SPDX-License-Identifier: MPL-2.0

package modulelist

import "slices"

// Graph maps each module to the modules it needs, in registration order.
type Graph struct {
	order []string
	deps  map[string][]string
}

func newGraph() *Graph {
	return &Graph{deps: make(map[string][]string)}
}

func (g *Graph) addModule(name string) {
	if _, ok := g.deps[name]; ok {
		return
	}
	g.order = append(g.order, name)
	g.deps[name] = nil
}

func (g *Graph) addEdge(module, dependency string) {
	if slices.Contains(g.deps[module], dependency) {
		return
	}
	g.deps[module] = append(g.deps[module], dependency)
}

// Names returns the modules in registration order.
func (g *Graph) Names() []string {
	return slices.Clone(g.order)
}

// Dependencies returns the modules name needs, in declaration order.
func (g *Graph) Dependencies(name string) []string {
	return slices.Clone(g.deps[name])
}

// Dependents returns the modules that need name, in registration order.
func (g *Graph) Dependents(name string) []string {
	var out []string
	for _, m := range g.order {
		if slices.Contains(g.deps[m], name) {
			out = append(out, m)
		}
	}
	return out
}

// EdgeCount returns the number of module→dependency edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.deps {
		n += len(deps)
	}
	return n
}
