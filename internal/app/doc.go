// SPDX-License-Identifier: MPL-2.0

// Package app composes the framework: configuration, module list, runner,
// installer and cli scripts.
//
// There is no global instance. New builds an Application from explicit
// Options and initialises its core systems; Run executes the run steps
// (loadAllModules, runAllCoreModules, runAllAppModules, runCliFile in run
// mode; loadAllModules, installAllModules in install mode) through an
// observer.RunTasks, then notifies bfw_run_done. Every step and module action
// goes through the "ApplicationTasks" subject, so one observer sees the whole
// run. Failures are returned to the caller and handed to the Reporter.
package app
