// SPDX-License-Identifier: MPL-2.0

package modulelist

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bfw-systems/bfw/internal/testutil"
	"github.com/bfw-systems/bfw/pkg/bfwmod"
)

func TestModule_Lifecycle(t *testing.T) {
	t.Parallel()
	root := testutil.NewAppRoot(t)
	dir := root.AddModule("blog", `{"runner": "runner.sh", "needMe": "core"}`)
	root.AddModuleFile("blog", "runner.sh", "echo blog\n")
	root.AddConfigFile("blog", "manifest.json", `{"title": "My blog"}`)

	m := NewModule("blog", dir, filepath.Join(root.ConfigDir(), "blog"))
	if m.Status() != StatusUnloaded {
		t.Fatalf("status = %s", m.Status())
	}

	err := m.MarkRun()
	var transErr *InvalidTransitionError
	if !errors.As(err, &transErr) || !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected *InvalidTransitionError, got %v", err)
	}
	if _, err := m.RunnerPath(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("RunnerPath before Load: expected ErrNotLoaded, got %v", err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if !m.IsLoaded() || m.IsRun() {
		t.Fatalf("unexpected status %s", m.Status())
	}

	if title, ok := m.Config().GetValue("manifest.json", "title"); !ok || title != "My blog" {
		t.Errorf("config value = %v, %v", title, ok)
	}
	runner, err := m.RunnerPath()
	if err != nil || runner != filepath.Join(dir, "runner.sh") {
		t.Errorf("runner = %q, %v", runner, err)
	}

	if err := m.MarkRun(); err != nil {
		t.Fatal(err)
	}
	if err := m.MarkRun(); err != nil {
		t.Fatalf("marking run twice must be a no-op, got %v", err)
	}
	if !m.IsRun() || !m.IsLoaded() {
		t.Errorf("unexpected status %s", m.Status())
	}
}

func TestModule_Dependencies(t *testing.T) {
	t.Parallel()
	m := &Module{
		name: "shop",
		descriptor: &bfwmod.Descriptor{
			NeedMe:  bfwmod.NameList{"core", "session"},
			Require: bfwmod.NameList{"core", "cart"},
		},
		status: StatusLoaded,
	}
	m.AddDependency("payments")
	m.AddDependency("session")
	m.AddDependency("  ")
	m.AddDependency("payments")

	want := []string{"core", "session", "cart", "payments"}
	if diff := cmp.Diff(want, m.Dependencies()); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestModule_LoadWithoutConfigDir(t *testing.T) {
	t.Parallel()
	root := testutil.NewAppRoot(t)
	dir := root.AddModule("plain", `{}`)

	m := NewModule("plain", dir, "")
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	if m.Config().Len() != 0 {
		t.Errorf("expected no config files, got %v", m.Config().Names())
	}
	if path, err := m.RunnerPath(); err != nil || path != "" {
		t.Errorf("expected no runner, got %q, %v", path, err)
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()
	for s, want := range map[Status]string{
		StatusUnloaded: "unloaded",
		StatusLoaded:   "loaded",
		StatusRun:      "run",
		Status(9):      "Status(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestLoadTree_Helpers(t *testing.T) {
	t.Parallel()
	tree := LoadTree{{{"a", "b"}}, {{"c"}, {"d"}}}

	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, tree.Flatten()); diff != "" {
		t.Errorf("flatten mismatch (-want +got):\n%s", diff)
	}
	if tree.Len() != 4 {
		t.Errorf("Len = %d", tree.Len())
	}
	if tree.LayerOf("d") != 1 || tree.LayerOf("a") != 0 || tree.LayerOf("z") != -1 {
		t.Error("LayerOf mismatch")
	}
	if LoadTree(nil).Flatten() != nil {
		t.Error("empty tree must flatten to nil")
	}
}
