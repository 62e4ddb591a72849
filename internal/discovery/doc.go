// SPDX-License-Identifier: MPL-2.0

// Package discovery lists the module directories of an application.
//
// A module is any real subdirectory of the modules directory; symbolic links
// are followed. Entries that cannot be used are reported as Diagnostic values
// instead of failing the scan, leaving the rendering policy to the caller.
package discovery
