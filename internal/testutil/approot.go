// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// AppRoot is a temporary application tree:
//
//	<Dir>/app/modules/<name>/module.json
//	<Dir>/app/config/<name>/...
//	<Dir>/src/cli/...
type AppRoot struct {
	Dir string
	t   testing.TB
}

// NewAppRoot creates an empty application tree in a test temp directory.
func NewAppRoot(t testing.TB) *AppRoot {
	t.Helper()
	root := &AppRoot{Dir: t.TempDir(), t: t}
	MustMkdirAll(t, root.ModulesDir())
	MustMkdirAll(t, root.ConfigDir())
	return root
}

// ModulesDir returns <Dir>/app/modules.
func (r *AppRoot) ModulesDir() string {
	return filepath.Join(r.Dir, "app", "modules")
}

// ConfigDir returns <Dir>/app/config.
func (r *AppRoot) ConfigDir() string {
	return filepath.Join(r.Dir, "app", "config")
}

// CliDir returns <Dir>/src/cli.
func (r *AppRoot) CliDir() string {
	return filepath.Join(r.Dir, "src", "cli")
}

// AddModule creates app/modules/<name> with the given module.json content and
// returns the module directory.
func (r *AppRoot) AddModule(name, descriptor string) string {
	r.t.Helper()
	dir := filepath.Join(r.ModulesDir(), name)
	MustWriteFile(r.t, filepath.Join(dir, "module.json"), descriptor)
	return dir
}

// AddModuleFile writes a file inside app/modules/<name>.
func (r *AppRoot) AddModuleFile(name, rel, content string) string {
	r.t.Helper()
	path := filepath.Join(r.ModulesDir(), name, filepath.FromSlash(rel))
	MustWriteFile(r.t, path, content)
	return path
}

// AddConfigFile writes app/config/<dir>/<file>.
func (r *AppRoot) AddConfigFile(dir, file, content string) string {
	r.t.Helper()
	path := filepath.Join(r.ConfigDir(), dir, file)
	MustWriteFile(r.t, path, content)
	return path
}

// AddCliFile writes src/cli/<name>.
func (r *AppRoot) AddCliFile(name, content string) string {
	r.t.Helper()
	path := filepath.Join(r.CliDir(), name)
	MustWriteFile(r.t, path, content)
	return path
}
