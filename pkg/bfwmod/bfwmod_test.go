// SPDX-License-Identifier: MPL-2.0

package bfwmod

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseDescriptorBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		wantRunner string
		wantDeps   []string
	}{
		{
			name: "empty object",
			data: `{}`,
		},
		{
			name:     "needMe as string",
			data:     `{"needMe": "core"}`,
			wantDeps: []string{"core"},
		},
		{
			name:       "needMe as list plus runner",
			data:       `{"runner": "runner.sh", "needMe": ["core", "router"]}`,
			wantRunner: "runner.sh",
			wantDeps:   []string{"core", "router"},
		},
		{
			name:     "require merged after needMe without duplicates",
			data:     `{"needMe": ["core"], "require": ["router", "core", " "]}`,
			wantDeps: []string{"core", "router"},
		},
		{
			name: "null needMe means no dependencies",
			data: `{"needMe": null, "require": null}`,
		},
		{
			name:     "null needMe next to require",
			data:     `{"needMe": null, "require": "core"}`,
			wantDeps: []string{"core"},
		},
		{
			name:     "unknown keys are kept open",
			data:     `{"needMe": "session", "priority": 3, "meta": {"author": "x"}}`,
			wantDeps: []string{"session"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			desc, err := ParseDescriptorBytes("mod", []byte(tt.data), "module.json")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if desc.Runner != tt.wantRunner {
				t.Errorf("runner = %q, want %q", desc.Runner, tt.wantRunner)
			}
			if diff := cmp.Diff(tt.wantDeps, desc.Dependencies()); diff != "" {
				t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDescriptorBytes_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"needMe": [`},
		{name: "needMe number", data: `{"needMe": 4}`},
		{name: "needMe list of numbers", data: `{"needMe": [1, 2]}`},
		{name: "runner not a string", data: `{"runner": true}`},
		{name: "top level array", data: `["core"]`},
		{name: "duplicate needMe keys with different values", data: `{"needMe": "a", "needMe": "b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDescriptorBytes("broken", []byte(tt.data), "module.json")
			if !errors.Is(err, ErrDescriptorParse) {
				t.Fatalf("expected ErrDescriptorParse, got %v", err)
			}
			var parseErr *DescriptorParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *DescriptorParseError, got %T", err)
			}
			if parseErr.Module != "broken" {
				t.Errorf("module = %q, want broken", parseErr.Module)
			}
		})
	}
}

func TestParseDescriptor_Missing(t *testing.T) {
	t.Parallel()
	_, err := ParseDescriptor("ghost", t.TempDir())
	if !errors.Is(err, ErrDescriptorNotFound) {
		t.Fatalf("expected ErrDescriptorNotFound, got %v", err)
	}
	if !errors.Is(err, ErrDescriptorParse) {
		t.Fatalf("expected ErrDescriptorParse, got %v", err)
	}
}

func TestResolveRunner(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "runner.sh"), "echo run\n")

	path, err := ResolveRunner("mod", dir, &Descriptor{Runner: "src/runner.sh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "src", "runner.sh") {
		t.Errorf("unexpected runner path %q", path)
	}

	path, err = ResolveRunner("mod", dir, &Descriptor{})
	if err != nil || path != "" {
		t.Errorf("expected no runner, got %q, %v", path, err)
	}

	_, err = ResolveRunner("mod", dir, &Descriptor{Runner: "missing.sh"})
	var notFound *RunnerFileNotFoundError
	if !errors.As(err, &notFound) || !errors.Is(err, ErrRunnerFileNotFound) {
		t.Fatalf("expected *RunnerFileNotFoundError, got %v", err)
	}

	_, err = ResolveRunner("mod", dir, &Descriptor{Runner: "src"})
	if !errors.Is(err, ErrRunnerFileNotFound) {
		t.Errorf("directory runner should be reported as not found, got %v", err)
	}

	if _, err = ResolveRunner("mod", dir, &Descriptor{Runner: "../outside.sh"}); err == nil {
		t.Error("expected escape error")
	}
}

func TestParseInstallInfo(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InstallInfoFile), `{
		"srcPath": "src/",
		"configFiles": ["config.json"],
		"installScript": "install.sh"
	}`)

	info, err := ParseInstallInfo("mod", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(NameList{"install.sh"}, info.InstallScript); diff != "" {
		t.Errorf("installScript mismatch (-want +got):\n%s", diff)
	}
	if info.SrcPath != "src/" || len(info.ConfigFiles) != 1 {
		t.Errorf("unexpected install info %+v", info)
	}

	info, err = ParseInstallInfo("mod", writeInstallInfo(t, `{"installScript": null}`))
	if err != nil || len(info.InstallScript) != 0 {
		t.Errorf("null installScript must mean no script, got %v, %v", info, err)
	}

	_, err = ParseInstallInfo("mod", t.TempDir())
	if !errors.Is(err, ErrDescriptorNotFound) {
		t.Errorf("expected ErrDescriptorNotFound, got %v", err)
	}
}

func writeInstallInfo(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, InstallInfoFile), content)
	return dir
}
