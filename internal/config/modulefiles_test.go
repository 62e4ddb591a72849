// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadModuleFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files := map[string]string{
		"db.json":     `{"host": "localhost", "pool": {"size": 4}}`,
		"cache.yaml":  "ttl: 30\n",
		"routes.toml": "[home]\npath = \"/\"\n",
		"README.md":   "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	mf, err := LoadModuleFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"cache.yaml", "db.json", "routes.toml"}, mf.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		file, key string
		want      any
	}{
		{"db.json", "host", "localhost"},
		{"db.json", "pool.size", float64(4)},
		{"cache.yaml", "ttl", 30},
		{"routes.toml", "home.path", "/"},
	}
	for _, tt := range tests {
		got, ok := mf.GetValue(tt.file, tt.key)
		if !ok {
			t.Errorf("%s:%s missing", tt.file, tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("%s:%s = %#v, want %#v", tt.file, tt.key, got, tt.want)
		}
	}

	if _, ok := mf.GetValue("db.json", "missing"); ok {
		t.Error("missing key reported as present")
	}
	if _, err := mf.Get("other.json"); !errors.Is(err, ErrModuleConfigFileNotFound) {
		t.Errorf("expected ErrModuleConfigFileNotFound, got %v", err)
	}
}

func TestLoadModuleFiles_MissingDir(t *testing.T) {
	t.Parallel()
	mf, err := LoadModuleFiles(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mf.Len() != 0 {
		t.Errorf("expected no files, got %v", mf.Names())
	}
}

func TestLoadModuleFiles_InvalidFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadModuleFiles(dir); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
