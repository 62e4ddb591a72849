// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	// ModuleNotFoundId is shown when a module name is unknown.
	ModuleNotFoundId Id = iota + 1
	// DependencyNotFoundId is shown when needMe names an unknown module.
	DependencyNotFoundId
	// DependencyCycleId is shown when the load tree cannot be built.
	DependencyCycleId
	// DescriptorParseErrorId is shown for an unreadable module.json.
	DescriptorParseErrorId
	// RunnerFileNotFoundId is shown when a runner script is missing.
	RunnerFileNotFoundId
	// ScriptExecutionFailedId is shown when a runner, install or cli script fails.
	ScriptExecutionFailedId
	// ConfigLoadFailedId is shown when config.cue is invalid.
	ConfigLoadFailedId
)

type (
	// Id identifies an issue page.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// Issue is a Markdown guidance page for a known failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

The module you asked for is not registered.

## Things you can try:
- List the discovered modules:
~~~
$ bfw module list
~~~
- Check that ` + "`app/modules/<name>/`" + ` exists and is a directory
- Check for typos in the module name`,
	}

	dependencyNotFoundIssue = &Issue{
		id: DependencyNotFoundId,
		mdMsg: `
# Missing module dependency!

A module declares a ` + "`needMe`" + ` entry for a module that is not installed.

## Things you can try:
- Install the missing module under ` + "`app/modules/`" + `
- Remove the entry from the dependent module's ` + "`module.json`" + `
- Set ` + "`dependencies: strict: false`" + ` in ` + "`app/config/bfw/config.cue`" + ` to ignore unknown dependencies`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Modules depend on each other in a loop, so no load order exists.

## Things you can try:
- Inspect the dependency graph:
~~~
$ bfw tree
~~~
- Remove one ` + "`needMe`" + ` entry from the modules listed above`,
	}

	descriptorParseErrorIssue = &Issue{
		id: DescriptorParseErrorId,
		mdMsg: `
# Invalid module.json!

## Expected shape:
~~~json
{
  "runner": "runner.sh",
  "needMe": ["core", "router"]
}
~~~

` + "`needMe`" + ` accepts a single name or a list of names.`,
	}

	runnerFileNotFoundIssue = &Issue{
		id: RunnerFileNotFoundId,
		mdMsg: `
# Runner script not found!

The ` + "`runner`" + ` path in ` + "`module.json`" + ` is relative to the module directory and must name a file.

## Things you can try:
- Create the script or fix the path
- Remove the ` + "`runner`" + ` key if the module has nothing to run`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

A module script exited with an error. Scripts run in an embedded POSIX shell.

## Things you can try:
- Run with ` + "`--verbose`" + ` to see the error chain
- Check the script for bash-only syntax`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Example config.cue:
~~~cue
modules: [{name: "core", enabled: true}]
log: {level: "info", format: "text"}
dependencies: strict: true
~~~

## Things you can try:
- Show the effective configuration:
~~~
$ bfw config show
~~~`,
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():        moduleNotFoundIssue,
		dependencyNotFoundIssue.Id():    dependencyNotFoundIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		descriptorParseErrorIssue.Id():  descriptorParseErrorIssue,
		runnerFileNotFoundIssue.Id():    runnerFileNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the page for a terminal using a glamour style ("dark",
// "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// Values returns every issue ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
