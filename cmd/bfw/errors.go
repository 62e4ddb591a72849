// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/app"
	"github.com/bfw-systems/bfw/internal/config"
	"github.com/bfw-systems/bfw/internal/issue"
	"github.com/bfw-systems/bfw/internal/modulelist"
	"github.com/bfw-systems/bfw/internal/script"
	"github.com/bfw-systems/bfw/pkg/bfwmod"
)

// classifyError maps a framework failure to its issue page. Zero means no page.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	switch {
	case errors.Is(err, modulelist.ErrCyclicDependency):
		return issue.DependencyCycleId
	case errors.Is(err, modulelist.ErrDependencyNotFound):
		return issue.DependencyNotFoundId
	case errors.Is(err, modulelist.ErrNotFound):
		return issue.ModuleNotFoundId
	case errors.Is(err, bfwmod.ErrRunnerFileNotFound), errors.Is(err, app.ErrCliFileNotFound):
		return issue.RunnerFileNotFoundId
	case errors.Is(err, bfwmod.ErrDescriptorParse):
		return issue.DescriptorParseErrorId
	case errors.Is(err, script.ErrScriptFailed), errors.Is(err, script.ErrScriptSyntax):
		return issue.ScriptExecutionFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.As(err, &ae) && ae.Operation == "load configuration":
		return issue.ConfigLoadFailedId
	}
	return 0
}

// exitCodeFor returns the status of a failed script, 1 otherwise.
func exitCodeFor(err error) int {
	var exitErr *script.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own Format; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes the styled error and its issue page to w.
func renderError(w io.Writer, err error, verbose bool, markdownStyle string) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	page := issue.Get(id)
	if page == nil {
		return
	}
	rendered, renderErr := page.Render(markdownStyle)
	if renderErr != nil {
		log.Warn("failed to render issue page", "id", id, "err", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

// fail renders err on the App's stderr and returns the ExitError for fang.
func (a *App) fail(err error) error {
	renderError(a.stderr, err, a.verbose, a.markdownStyle)
	return &ExitError{Code: exitCodeFor(err), Err: err}
}
