// SPDX-License-Identifier: MPL-2.0

// Package dag provides the directed graph used to order module loading.
//
// Nodes are module names. An edge from A to B means "A must be loaded before B".
// The layered sort is deterministic: nodes that become ready at the same time
// keep the order in which they were first added to the graph, never a name sort.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing any ordering.
	CycleError struct {
		// Cycle lists the nodes left unplaced when sorting stalled, in insertion
		// order. It is not necessarily a minimal cycle.
		Cycle []string
	}

	// Graph is a directed graph keyed by node name.
	Graph struct {
		// adjacency maps each node to the nodes that must wait for it.
		adjacency map[string][]string
		// edges deduplicates from->to pairs.
		edges map[[2]string]bool
		// nodes tracks all nodes in insertion order.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edges:     make(map[[2]string]bool),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" must come before "to".
// Both nodes are implicitly added if they don't exist. Repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

func (g *Graph) inDegrees() map[string]int {
	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}
	return inDegree
}

// Layers groups the nodes into levels: layer 0 holds every node without incoming
// edges, and each following layer holds the nodes whose predecessors all sit in
// earlier layers. Inside a layer nodes keep insertion order.
//
// Returns CycleError when some nodes can never reach in-degree zero.
func (g *Graph) Layers() ([][]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := g.inDegrees()
	placed := make(map[string]bool, len(g.nodes))

	var layers [][]string
	for len(placed) < len(g.nodes) {
		var layer []string
		for _, node := range g.nodes {
			if !placed[node] && inDegree[node] == 0 {
				layer = append(layer, node)
			}
		}
		if len(layer) == 0 {
			return nil, &CycleError{Cycle: g.remaining(inDegree)}
		}

		// Removal happens after the scan so a node freed by this layer waits
		// for the next one.
		for _, node := range layer {
			placed[node] = true
			for _, neighbor := range g.adjacency[node] {
				inDegree[neighbor]--
			}
		}
		layers = append(layers, layer)
	}

	return layers, nil
}

func (g *Graph) remaining(inDegree map[string]int) []string {
	var cycleNodes []string
	for _, node := range g.nodes {
		if inDegree[node] > 0 {
			cycleNodes = append(cycleNodes, node)
		}
	}
	return cycleNodes
}
