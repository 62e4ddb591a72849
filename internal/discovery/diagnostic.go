// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeScanFailed is used when the modules directory cannot be listed.
	CodeScanFailed = "module_scan_failed"
	// CodeNotADirectory is used for plain files in the modules directory.
	CodeNotADirectory = "module_not_directory"
	// CodeBrokenSymlink is used for links whose target cannot be read.
	CodeBrokenSymlink = "module_symlink_broken"
	// CodeHiddenSkipped is used for dot-prefixed directories.
	CodeHiddenSkipped = "module_hidden_skipped"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal discovery finding.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "module_symlink_broken").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the entry the diagnostic refers to.
		Path string
		// Cause is the underlying error (optional).
		Cause error
	}
)

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}
