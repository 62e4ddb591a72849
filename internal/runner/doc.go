// SPDX-License-Identifier: MPL-2.0

// Package runner walks a module load tree and invokes each module's lifecycle
// callbacks exactly once, in tree order.
//
// A module's run callback is either a Go Hook registered with Register or,
// failing that, the runner script named in its module.json, executed with
// the embedded shell. Each step is announced to the shared observer subject
// with load_module_<name> and run_module_<name> actions; a full walk ends with
// run_modules_done.
package runner
