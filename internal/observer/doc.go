// SPDX-License-Identifier: MPL-2.0

// Package observer carries the framework's in-process notifications.
//
// A [Subject] fans string action tokens out to attached observers in attach
// order. Tokens follow the "<event>_<name>" shape, for example
// "load_module_router" or "BfwApp_exec_loadAllModules". [RunTasks] is a Subject
// that executes named steps in sequence and announces each one.
package observer
