// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLayers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(g *Graph)
		want  [][]string
	}{
		{
			name:  "empty",
			build: func(*Graph) {},
			want:  nil,
		},
		{
			name: "independent nodes share layer zero in insertion order",
			build: func(g *Graph) {
				g.AddNode("zeta")
				g.AddNode("alpha")
				g.AddNode("mid")
			},
			want: [][]string{{"zeta", "alpha", "mid"}},
		},
		{
			name: "chain A B C",
			build: func(g *Graph) {
				g.AddNode("A")
				g.AddNode("B")
				g.AddNode("C")
				g.AddEdge("A", "B")
				g.AddEdge("A", "C")
				g.AddEdge("B", "C")
			},
			want: [][]string{{"A"}, {"B"}, {"C"}},
		},
		{
			name: "diamond",
			build: func(g *Graph) {
				g.AddEdge("A", "B")
				g.AddEdge("A", "C")
				g.AddEdge("B", "D")
				g.AddEdge("C", "D")
			},
			want: [][]string{{"A"}, {"B", "C"}, {"D"}},
		},
		{
			name: "node freed in a layer waits for the next one",
			build: func(g *Graph) {
				g.AddNode("late")
				g.AddNode("root")
				g.AddEdge("root", "late")
				g.AddNode("other")
			},
			want: [][]string{{"root", "other"}, {"late"}},
		},
		{
			name: "duplicate edges count once",
			build: func(g *Graph) {
				g.AddEdge("A", "B")
				g.AddEdge("A", "B")
			},
			want: [][]string{{"A"}, {"B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			tt.build(g)
			got, err := g.Layers()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("layers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayers_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		build     func(g *Graph)
		wantCycle []string
	}{
		{
			name: "two node cycle",
			build: func(g *Graph) {
				g.AddEdge("X", "Y")
				g.AddEdge("Y", "X")
			},
			wantCycle: []string{"X", "Y"},
		},
		{
			name: "self loop",
			build: func(g *Graph) {
				g.AddEdge("A", "A")
			},
			wantCycle: []string{"A"},
		},
		{
			name: "cycle behind a valid prefix",
			build: func(g *Graph) {
				g.AddNode("ok")
				g.AddEdge("ok", "B")
				g.AddEdge("B", "C")
				g.AddEdge("C", "B")
			},
			wantCycle: []string{"B", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			tt.build(g)
			layers, err := g.Layers()
			if layers != nil {
				t.Errorf("expected no layers on cycle, got %v", layers)
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if diff := cmp.Diff(tt.wantCycle, cycleErr.Cycle); diff != "" {
				t.Errorf("cycle mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "C"}}
	expected := "dependency cycle detected: A -> B -> C"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
