// SPDX-License-Identifier: MPL-2.0

// Package bfwmod reads the metadata documents stored in a module directory.
//
// A module is a directory under the application's modules directory. It carries:
//
//   - module.json (required): the [Descriptor], with an optional runner script
//     and the names of the modules it needs loaded first (needMe / require,
//     each either a string or a list of strings)
//   - bfwModulesInfos.json (optional): the [InstallInfo] used by the installer
//
// Both documents are validated against the embedded CUE schema before decoding.
// Failures are reported as [*DescriptorParseError]; a runner declared in the
// descriptor but absent on disk is reported as [*RunnerFileNotFoundError].
package bfwmod
