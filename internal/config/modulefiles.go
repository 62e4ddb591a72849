// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// ErrModuleConfigFileNotFound is returned by ModuleFiles.Get for an unknown file.
var ErrModuleConfigFileNotFound = errors.New("module config file not found")

// moduleConfigExts are the file extensions read from a module config directory.
var moduleConfigExts = []string{".json", ".yaml", ".yml", ".toml"}

// ModuleFiles is the content of one module config directory: one Viper
// instance per file, keyed by file name.
type ModuleFiles struct {
	dir   string
	files map[string]*viper.Viper
	names []string
}

// LoadModuleFiles reads every supported file directly inside dir. A missing
// directory yields an empty set. Subdirectories and other extensions are
// ignored.
func LoadModuleFiles(dir string) (*ModuleFiles, error) {
	mf := &ModuleFiles{dir: dir, files: make(map[string]*viper.Viper)}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return mf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read module config directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !slices.Contains(moduleConfigExts, strings.ToLower(filepath.Ext(name))) {
			continue
		}

		v := viper.New()
		v.SetConfigFile(filepath.Join(dir, name))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read module config file %s: %w", filepath.Join(dir, name), err)
		}
		mf.files[name] = v
		mf.names = append(mf.names, name)
	}

	return mf, nil
}

// Dir returns the directory the files were read from.
func (m *ModuleFiles) Dir() string {
	return m.dir
}

// Names returns the loaded file names in directory order.
func (m *ModuleFiles) Names() []string {
	return slices.Clone(m.names)
}

// Len returns the number of loaded files.
func (m *ModuleFiles) Len() int {
	return len(m.names)
}

// Get returns the Viper instance holding file.
func (m *ModuleFiles) Get(file string) (*viper.Viper, error) {
	v, ok := m.files[file]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrModuleConfigFileNotFound, file, m.dir)
	}
	return v, nil
}

// GetValue returns the value at the dotted key in file. The boolean is false
// when the file or the key is missing.
func (m *ModuleFiles) GetValue(file, key string) (any, bool) {
	v, ok := m.files[file]
	if !ok || !v.IsSet(key) {
		return nil, false
	}
	return v.Get(key), true
}
