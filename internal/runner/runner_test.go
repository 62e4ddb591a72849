// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bfw-systems/bfw/internal/modulelist"
	"github.com/bfw-systems/bfw/internal/script"
	"github.com/bfw-systems/bfw/internal/testutil"
	"github.com/bfw-systems/bfw/pkg/bfwmod"
)

// newChain builds {A, B needs A, C needs A and B} with its tree generated.
func newChain(t *testing.T) (*modulelist.List, *testutil.Recorder) {
	t.Helper()
	rec := &testutil.Recorder{}
	l := modulelist.New(modulelist.Options{})
	l.Subject().Attach(rec)
	l.AddLoadedModule("A", nil)
	l.AddLoadedModule("B", &bfwmod.Descriptor{NeedMe: bfwmod.NameList{"A"}})
	l.AddLoadedModule("C", &bfwmod.Descriptor{NeedMe: bfwmod.NameList{"A", "B"}})
	if _, err := l.GenerateTree(); err != nil {
		t.Fatal(err)
	}
	rec.Reset()
	return l, rec
}

func TestLoadAll_Tokens(t *testing.T) {
	t.Parallel()
	l, rec := newChain(t)

	var loaded []string
	r := New(l, Options{})
	r.RegisterLoad("B", func(_ context.Context, m *modulelist.Module) error {
		loaded = append(loaded, m.Name())
		return nil
	})

	if err := r.LoadAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"load_module_A", "load_module_B", "load_module_C"}
	if diff := cmp.Diff(want, rec.Names()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B"}, loaded); diff != "" {
		t.Errorf("load hooks mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAll_OrderAndDone(t *testing.T) {
	t.Parallel()
	l, rec := newChain(t)

	var ran []string
	r := New(l, Options{})
	for _, name := range []string{"A", "B", "C"} {
		r.Register(name, func(_ context.Context, m *modulelist.Module) error {
			ran = append(ran, m.Name())
			return nil
		})
	}

	if err := r.RunAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, ran); diff != "" {
		t.Errorf("run order mismatch (-want +got):\n%s", diff)
	}
	want := []string{"run_module_A", "run_module_B", "run_module_C", "run_modules_done"}
	if diff := cmp.Diff(want, rec.Names()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRunModule_Idempotent(t *testing.T) {
	t.Parallel()
	l, rec := newChain(t)

	calls := 0
	r := New(l, Options{})
	r.Register("A", func(context.Context, *modulelist.Module) error {
		calls++
		return nil
	})

	for range 2 {
		if err := r.RunModule(context.Background(), "A"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("hook called %d times, want 1", calls)
	}
	if diff := cmp.Diff([]string{"run_module_A"}, rec.Names()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRunModule_ReentrantHook(t *testing.T) {
	t.Parallel()
	l, _ := newChain(t)

	calls := 0
	r := New(l, Options{})
	r.Register("A", func(ctx context.Context, _ *modulelist.Module) error {
		calls++
		return r.RunModule(ctx, "A")
	})
	if err := r.RunModule(context.Background(), "A"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("hook called %d times, want 1", calls)
	}
}

func TestRunAll_ErrorStopsWalk(t *testing.T) {
	t.Parallel()
	l, rec := newChain(t)

	boom := errors.New("boom")
	r := New(l, Options{})
	r.Register("B", func(context.Context, *modulelist.Module) error { return boom })
	cRan := false
	r.Register("C", func(context.Context, *modulelist.Module) error {
		cRan = true
		return nil
	})

	err := r.RunAll(context.Background())
	if err != boom { //nolint:errorlint // the hook error must come back unchanged
		t.Fatalf("expected the hook error unchanged, got %v", err)
	}
	if cRan {
		t.Error("C must not run after B failed")
	}
	if diff := cmp.Diff([]string{"run_module_A", "run_module_B"}, rec.Names()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRunModule_Errors(t *testing.T) {
	t.Parallel()

	l := modulelist.New(modulelist.Options{})
	l.AddModule("fresh")
	r := New(l, Options{})

	err := r.RunModule(context.Background(), "fresh")
	var transErr *modulelist.InvalidTransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("expected *InvalidTransitionError, got %v", err)
	}

	if err := r.RunModule(context.Background(), "ghost"); !errors.Is(err, modulelist.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := r.RunAll(context.Background()); !errors.Is(err, ErrNoLoadTree) {
		t.Errorf("expected ErrNoLoadTree, got %v", err)
	}
	if err := r.LoadAll(context.Background()); !errors.Is(err, ErrNoLoadTree) {
		t.Errorf("expected ErrNoLoadTree, got %v", err)
	}
}

func TestRunAll_Scripts(t *testing.T) {
	t.Parallel()
	root := testutil.NewAppRoot(t)
	root.AddModule("core", `{"runner": "runner.sh"}`)
	root.AddModuleFile("core", "runner.sh", `echo "core from $BFW_MODULE in $BFW_ROOT"`)
	root.AddModule("blog", `{"runner": "bin/run.sh", "needMe": "core"}`)
	root.AddModuleFile("blog", "bin/run.sh", `echo "blog"`)
	root.AddModule("static", `{}`)

	l := modulelist.New(modulelist.Options{ModulesDir: root.ModulesDir(), ConfigDir: root.ConfigDir()})
	l.AddModules("blog", "core", "static")
	if _, err := l.GenerateTree(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	r := New(l, Options{
		RootDir:  root.Dir,
		Executor: script.New(script.WithStdio(nil, &out, nil), script.WithEnv(nil)),
	})
	if err := r.LoadAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.RunAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "core from core in " + root.Dir + "\nblog\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunModule_MissingRunner(t *testing.T) {
	t.Parallel()
	root := testutil.NewAppRoot(t)
	root.AddModule("broken", `{"runner": "missing.sh"}`)

	l := modulelist.New(modulelist.Options{ModulesDir: root.ModulesDir()})
	l.AddModule("broken")
	if _, err := l.GenerateTree(); err != nil {
		t.Fatal(err)
	}

	r := New(l, Options{})
	err := r.RunAll(context.Background())
	var notFound *bfwmod.RunnerFileNotFoundError
	if !errors.As(err, &notFound) || notFound.Module != "broken" {
		t.Fatalf("expected *bfwmod.RunnerFileNotFoundError, got %v", err)
	}

	m, _ := l.GetModuleForName("broken")
	if m.Status() != modulelist.StatusLoaded {
		t.Errorf("status = %s, want loaded", m.Status())
	}
	if err := r.RunModule(context.Background(), "broken"); !errors.Is(err, bfwmod.ErrRunnerFileNotFound) {
		t.Errorf("second call must report the missing runner again, got %v", err)
	}
}

func TestRunModule_ScriptFailure(t *testing.T) {
	t.Parallel()
	root := testutil.NewAppRoot(t)
	root.AddModule("bad", `{"runner": "runner.sh"}`)
	root.AddModuleFile("bad", "runner.sh", "exit 4\n")

	l := modulelist.New(modulelist.Options{ModulesDir: root.ModulesDir()})
	l.AddModule("bad")
	if _, err := l.GenerateTree(); err != nil {
		t.Fatal(err)
	}

	err := New(l, Options{}).RunAll(context.Background())
	var exitErr *script.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 4 {
		t.Fatalf("expected exit status 4, got %v", err)
	}
}

func TestRunCoreModules(t *testing.T) {
	t.Parallel()
	l, rec := newChain(t)

	r := New(l, Options{})
	if err := r.RunCoreModules(context.Background(), []string{"C", "A"}); err != nil {
		t.Fatal(err)
	}
	if err := r.RunAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"run_module_C", "run_module_A", "run_module_B", "run_modules_done"}
	if diff := cmp.Diff(want, rec.Names()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}

	err := r.RunCoreModules(context.Background(), []string{"unknown"})
	if !errors.Is(err, modulelist.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunAll_Canceled(t *testing.T) {
	t.Parallel()
	l, rec := newChain(t)

	ctx, cancel := context.WithCancel(context.Background())
	r := New(l, Options{})
	r.Register("A", func(context.Context, *modulelist.Module) error {
		cancel()
		return nil
	})

	err := r.RunAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !strings.Contains(err.Error(), "module B") {
		t.Errorf("error should name the next module: %v", err)
	}
	if diff := cmp.Diff([]string{"run_module_A"}, rec.Names()); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}
