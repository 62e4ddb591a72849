// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func codes(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestScanModules(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	mkdir(t, filepath.Join(dir, "router"))
	mkdir(t, filepath.Join(dir, "core"))
	mkdir(t, filepath.Join(dir, ".git"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := ScanModules(dir)
	if diff := cmp.Diff([]string{"core", "router"}, res.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{CodeHiddenSkipped, CodeNotADirectory}, codes(res.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if res.HasErrors() {
		t.Error("warnings must not count as errors")
	}
}

func TestScanModules_Symlinks(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "shared")
	mkdir(t, target)

	if err := os.Symlink(target, filepath.Join(dir, "linked")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken")); err != nil {
		t.Fatal(err)
	}

	res := ScanModules(dir)
	if diff := cmp.Diff([]string{"linked"}, res.Names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{CodeBrokenSymlink}, codes(res.Diagnostics)); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestScanModules_MissingDir(t *testing.T) {
	t.Parallel()
	res := ScanModules(filepath.Join(t.TempDir(), "absent"))
	if len(res.Names) != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestScanModules_NotADirectory(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "modules")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	res := ScanModules(file)
	if !res.HasErrors() {
		t.Fatalf("expected a scan error, got %+v", res.Diagnostics)
	}
}
