// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for the bfw command line.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Issue is a catalog of Markdown guidance pages rendered
// with glamour for the failures a module author most often hits.
package issue
