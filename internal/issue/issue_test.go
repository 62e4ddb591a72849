// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "build load tree"},
			want: "failed to build load tree",
		},
		{
			name: "with resource and cause",
			err: &ActionableError{
				Operation: "load module",
				Resource:  "session",
				Cause:     errors.New("boom"),
			},
			want: "failed to load module: session: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("file missing")
	err := NewErrorContext().
		WithOperation("run module").
		WithResource("router").
		WithSuggestion("Check the runner path").
		Wrap(fmt.Errorf("runner: %w", root)).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "  • Check the runner path") {
		t.Errorf("missing suggestion in %q", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("non-verbose output must not include the chain: %q", short)
	}

	long := err.Format(true)
	if !strings.Contains(long, "1. runner: file missing") || !strings.Contains(long, "2. file missing") {
		t.Errorf("unexpected verbose output %q", long)
	}
	if !errors.Is(err, root) {
		t.Error("ActionableError must unwrap to its cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build without operation must return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError without operation must return a nil interface, got %v", err)
	}
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values returned %d issues, want %d", len(values), len(issues))
	}
	for i, iss := range values {
		if iss.Id() != Id(i+1) {
			t.Errorf("issue %d has id %d", i, iss.Id())
		}
		if strings.TrimSpace(string(iss.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty body", iss.Id())
		}
	}
	if Get(Id(999)) != nil {
		t.Error("unknown id must return nil")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()
	out, err := Get(DependencyCycleId).Render("notty")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "Dependency cycle detected") {
		t.Errorf("rendered output misses the title: %q", out)
	}
}
