// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the bfw command line: running an application,
// installing its modules and inspecting the module load tree.
package cmd
