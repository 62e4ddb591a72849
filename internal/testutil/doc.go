// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by the framework's tests.
//
// It covers filesystem fixtures (MustMkdirAll, MustWriteFile, NewAppRoot and
// AppRoot.AddModule for module directories with a module.json) and an
// observer Recorder that captures action tokens.
package testutil
