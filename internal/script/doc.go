// SPDX-License-Identifier: MPL-2.0

// Package script runs module scripts (runner, install and cli scripts) with
// the embedded mvdan.cc/sh POSIX interpreter, so module scripts behave the
// same on every host without a system shell.
package script
