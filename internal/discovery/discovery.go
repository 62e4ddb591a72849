// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Result is the outcome of ScanModules.
type Result struct {
	// Dir is the absolute modules directory.
	Dir string
	// Names are the module names in directory order.
	Names []string
	// Diagnostics lists skipped entries.
	Diagnostics []Diagnostic
}

// ScanModules lists the module names found in dir. A missing directory yields
// an empty result; an unreadable one yields a CodeScanFailed diagnostic.
func ScanModules(dir string) Result {
	res := Result{Dir: dir}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Code:     CodeScanFailed,
			Message:  fmt.Sprintf("failed to resolve modules directory %q: %v", dir, err),
			Path:     dir,
			Cause:    err,
		})
		return res
	}
	res.Dir = absDir

	// ReadDir sorts by name, which is the order modules are registered in.
	entries, err := os.ReadDir(absDir)
	if errors.Is(err, fs.ErrNotExist) {
		return res
	}
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Code:     CodeScanFailed,
			Message:  fmt.Sprintf("failed to list modules directory %s: %v", absDir, err),
			Path:     absDir,
			Cause:    err,
		})
		return res
	}

	for _, entry := range entries {
		name := entry.Name()
		entryPath := filepath.Join(absDir, name)

		isDir, diag := isDirectory(entry, entryPath)
		if diag != nil {
			res.Diagnostics = append(res.Diagnostics, *diag)
			continue
		}
		if !isDir {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeNotADirectory,
				Message:  fmt.Sprintf("skipping %s: not a directory", name),
				Path:     entryPath,
			})
			continue
		}
		if strings.HasPrefix(name, ".") {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeHiddenSkipped,
				Message:  fmt.Sprintf("skipping hidden directory %s", name),
				Path:     entryPath,
			})
			continue
		}

		res.Names = append(res.Names, name)
	}

	return res
}

// isDirectory reports whether entry is a directory, following symbolic links.
func isDirectory(entry fs.DirEntry, path string) (bool, *Diagnostic) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeBrokenSymlink,
			Message:  fmt.Sprintf("skipping %s: cannot resolve symbolic link: %v", entry.Name(), err),
			Path:     path,
			Cause:    err,
		}
	}
	return info.IsDir(), nil
}

// HasErrors reports whether any diagnostic has SeverityError.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
