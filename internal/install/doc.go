// SPDX-License-Identifier: MPL-2.0

// Package install runs module installation.
//
// A module taking part in installation ships a bfwModulesInfos.json that
// names its install scripts and the config files to copy into
// app/config/<module>/. Modules are installed in load-tree order so a module's
// dependencies are always installed first. Modules missing from the install
// list are skipped.
package install
