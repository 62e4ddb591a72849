// SPDX-License-Identifier: MPL-2.0

package bfwmod

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"

	"github.com/bfw-systems/bfw/pkg/cueutil"
)

const (
	// DescriptorFile is the name of the descriptor inside a module directory.
	DescriptorFile = "module.json"

	// InstallInfoFile is the name of the installer metadata inside a module directory.
	InstallInfoFile = "bfwModulesInfos.json"
)

var (
	//go:embed module_schema.cue
	moduleSchema string

	// ErrDescriptorNotFound is wrapped when module.json (or bfwModulesInfos.json) is missing.
	ErrDescriptorNotFound = errors.New("module descriptor not found")
	// ErrDescriptorParse is the sentinel matched by every DescriptorParseError.
	ErrDescriptorParse = errors.New("invalid module descriptor")
	// ErrRunnerFileNotFound is the sentinel matched by RunnerFileNotFoundError.
	ErrRunnerFileNotFound = errors.New("runner file not found")
)

type (
	// NameList is a list of module names that may be written in JSON either as a
	// single string or as an array of strings.
	NameList []string

	// Descriptor is the decoded module.json.
	Descriptor struct {
		// Runner is the script executed when the module runs, relative to the module directory.
		Runner string `json:"runner,omitempty"`
		// NeedMe lists the modules that must be loaded before this one.
		NeedMe NameList `json:"-"`
		// Require is accepted as an alias of NeedMe.
		Require NameList `json:"-"`
		// FilePath is where the descriptor was read from.
		FilePath string `json:"-"`
	}

	// InstallInfo is the decoded bfwModulesInfos.json.
	InstallInfo struct {
		SrcPath       string   `json:"srcPath,omitempty"`
		ConfigPath    string   `json:"configPath,omitempty"`
		ConfigFiles   []string `json:"configFiles,omitempty"`
		InstallScript NameList `json:"-"`
		FilePath      string   `json:"-"`
	}

	// DescriptorParseError reports a module metadata document that could not be
	// read or did not match the schema.
	DescriptorParseError struct {
		Module string
		Path   string
		Cause  error
	}

	// RunnerFileNotFoundError reports a runner script declared in module.json
	// that does not exist inside the module directory.
	RunnerFileNotFoundError struct {
		Module string
		Path   string
	}
)

func (e *DescriptorParseError) Error() string {
	return fmt.Sprintf("module %q: cannot read %s: %v", e.Module, filepath.Base(e.Path), e.Cause)
}

// Unwrap exposes both ErrDescriptorParse and the underlying cause.
func (e *DescriptorParseError) Unwrap() []error {
	return []error{ErrDescriptorParse, e.Cause}
}

func (e *RunnerFileNotFoundError) Error() string {
	return fmt.Sprintf("runner file for module %q not found: %s", e.Module, e.Path)
}

// Unwrap returns ErrRunnerFileNotFound for errors.Is checks.
func (e *RunnerFileNotFoundError) Unwrap() error { return ErrRunnerFileNotFound }

// Dependencies returns NeedMe followed by Require, without blanks or duplicates.
func (d *Descriptor) Dependencies() []string {
	seen := make(map[string]bool, len(d.NeedMe)+len(d.Require))
	var deps []string
	for _, list := range []NameList{d.NeedMe, d.Require} {
		for _, name := range list {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			deps = append(deps, name)
		}
	}
	return deps
}

// ParseDescriptor reads <moduleDir>/module.json for the named module.
func ParseDescriptor(moduleName, moduleDir string) (*Descriptor, error) {
	path := filepath.Join(moduleDir, DescriptorFile)
	data, err := readDocument(moduleName, path)
	if err != nil {
		return nil, err
	}
	return ParseDescriptorBytes(moduleName, data, path)
}

// ParseDescriptorBytes validates and decodes module.json content.
func ParseDescriptorBytes(moduleName string, data []byte, path string) (*Descriptor, error) {
	result, err := cueutil.ParseAndDecode[Descriptor](moduleSchema, data, "#Module", cueutil.WithFilename(path))
	if err != nil {
		return nil, &DescriptorParseError{Module: moduleName, Path: path, Cause: err}
	}

	desc := result.Value
	desc.FilePath = path
	if desc.NeedMe, err = nameListAt(result.Unified, "needMe"); err != nil {
		return nil, &DescriptorParseError{Module: moduleName, Path: path, Cause: err}
	}
	if desc.Require, err = nameListAt(result.Unified, "require"); err != nil {
		return nil, &DescriptorParseError{Module: moduleName, Path: path, Cause: err}
	}
	return desc, nil
}

// ParseInstallInfo reads <moduleDir>/bfwModulesInfos.json for the named module.
func ParseInstallInfo(moduleName, moduleDir string) (*InstallInfo, error) {
	path := filepath.Join(moduleDir, InstallInfoFile)
	data, err := readDocument(moduleName, path)
	if err != nil {
		return nil, err
	}

	result, err := cueutil.ParseAndDecode[InstallInfo](moduleSchema, data, "#InstallInfo", cueutil.WithFilename(path))
	if err != nil {
		return nil, &DescriptorParseError{Module: moduleName, Path: path, Cause: err}
	}

	info := result.Value
	info.FilePath = path
	if info.InstallScript, err = nameListAt(result.Unified, "installScript"); err != nil {
		return nil, &DescriptorParseError{Module: moduleName, Path: path, Cause: err}
	}
	return info, nil
}

// ResolveRunner returns the absolute path of the descriptor's runner script, or ""
// when the module declares none. The runner must stay inside the module directory.
func ResolveRunner(moduleName, moduleDir string, desc *Descriptor) (string, error) {
	if desc == nil || strings.TrimSpace(desc.Runner) == "" {
		return "", nil
	}
	return ResolveModuleFile(moduleName, moduleDir, desc.Runner)
}

// ResolveModuleFile resolves a forward-slash path relative to moduleDir and
// checks that it names an existing regular file inside the module.
func ResolveModuleFile(moduleName, moduleDir, rel string) (string, error) {
	nativePath := filepath.FromSlash(rel)
	if filepath.IsAbs(nativePath) {
		return "", fmt.Errorf("module %q: absolute paths are not allowed: %s", moduleName, rel)
	}

	fullPath := filepath.Join(moduleDir, nativePath)
	relPath, err := filepath.Rel(moduleDir, fullPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", fmt.Errorf("module %q: path %q escapes the module directory", moduleName, rel)
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return "", &RunnerFileNotFoundError{Module: moduleName, Path: fullPath}
	}
	return fullPath, nil
}

func readDocument(moduleName, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &DescriptorParseError{
			Module: moduleName,
			Path:   path,
			Cause:  fmt.Errorf("%w: %s", ErrDescriptorNotFound, path),
		}
	}
	if err != nil {
		return nil, &DescriptorParseError{Module: moduleName, Path: path, Cause: err}
	}
	return data, nil
}

// nameListAt reads a string-or-list field from a schema-validated value.
func nameListAt(v cue.Value, field string) (NameList, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return nil, nil
	}

	switch f.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.StringKind:
		s, err := f.String()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return NameList{s}, nil
	case cue.ListKind:
		var names []string
		if err := f.Decode(&names); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return NameList(names), nil
	default:
		return nil, fmt.Errorf("%s: expected a string or a list of strings", field)
	}
}
