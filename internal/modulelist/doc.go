// SPDX-License-Identifier: MPL-2.0

// Package modulelist holds the application modules and builds their load tree.
//
// Modules are registered by name (usually from discovery.ScanModules). Each
// module's module.json may declare the modules it needs through "needMe"
// (or "require"). ReadNeedMeDependencies turns those declarations into a
// dependency Graph and GenerateTree sorts the graph into layers: a module
// always sits in a later layer than every module it needs, and modules that
// become ready together keep their registration order.
//
// The list is written during the build phase only and read-only afterwards,
// so it does no locking.
package modulelist
