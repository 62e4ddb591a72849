// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/bfw-systems/bfw/internal/app"
	"github.com/bfw-systems/bfw/internal/config"
	"github.com/bfw-systems/bfw/internal/discovery"
	"github.com/bfw-systems/bfw/internal/modulelist"
)

const readmeFile = "README.md"

func newModuleCommand(a *App) *cobra.Command {
	moduleCmd := &cobra.Command{
		Use:   "module",
		Short: "Inspect the application modules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	moduleCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the modules found in app/modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listModules(cmd)
		},
	})

	moduleCmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show one module and its README",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showModule(cmd, args[0])
		},
	})

	moduleCmd.AddCommand(&cobra.Command{
		Use:   "config <name> <file> <key>",
		Short: "Print one value from a module config file",
		Long: `Print the value stored at a dotted key of a file in the module config
directory, e.g. "bfw module config core core.json db.host".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.moduleConfigValue(cmd, args[0], args[1], args[2])
		},
	})

	return moduleCmd
}

// listModules reads every descriptor on its own, so one broken module does
// not hide the others.
func (a *App) listModules(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd.Context())
	if err != nil {
		cmd.SilenceErrors = true
		return a.fail(err)
	}
	paths := app.NewPaths(a.rootDir, cfg)

	res := discovery.ScanModules(paths.Modules)
	for _, d := range res.Diagnostics {
		fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("Warning:"), d.Message)
	}
	if res.HasErrors() {
		cmd.SilenceErrors = true
		return &ExitError{Code: 1}
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render("Modules")+" "+SubtitleStyle.Render(fmt.Sprintf("(%s)", paths.Modules)))
	if len(res.Names) == 0 {
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("  (none found)"))
		return nil
	}

	broken := 0
	for _, name := range res.Names {
		m := modulelist.NewModule(name, filepath.Join(paths.Modules, name), filepath.Join(paths.Config, name))
		if err := m.Load(); err != nil {
			broken++
			fmt.Fprintf(a.stdout, "  %s %s\n", ModuleStyle.Render(name), ErrorStyle.Render(err.Error()))
			continue
		}
		line := "  " + ModuleStyle.Render(name)
		if deps := m.Dependencies(); len(deps) > 0 {
			line += " " + SubtitleStyle.Render("needs "+strings.Join(deps, ", "))
		}
		fmt.Fprintln(a.stdout, line)
	}

	if broken > 0 {
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: fmt.Errorf("%d module(s) could not be read", broken)}
	}
	return nil
}

func (a *App) showModule(cmd *cobra.Command, name string) error {
	application, err := a.newApplication(cmd.Context(), app.ModeRun, "", nil)
	if err == nil {
		err = application.Build(cmd.Context())
	}
	var m *modulelist.Module
	if err == nil {
		m, err = application.ModuleList().GetModuleForName(name)
	}
	if err != nil {
		cmd.SilenceErrors = true
		return a.fail(err)
	}

	list := application.ModuleList()
	field := func(key, value string) {
		fmt.Fprintf(a.stdout, "%s %s\n", ModuleStyle.Render(key+":"), value)
	}
	none := SubtitleStyle.Render("(none)")
	orNone := func(values []string) string {
		if len(values) == 0 {
			return none
		}
		return strings.Join(values, ", ")
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render(m.Name()))
	fmt.Fprintln(a.stdout)
	field("Directory", m.Dir())
	runner := m.Descriptor().Runner
	if runner == "" {
		runner = none
	}
	field("Runner", runner)
	field("Layer", fmt.Sprint(list.GetLoadTree().LayerOf(name)))
	field("Needs", orNone(list.Graph().Dependencies(name)))
	field("Needed by", orNone(list.Graph().Dependents(name)))
	field("Config files", orNone(moduleConfigNames(m.Config())))

	readme, err := os.ReadFile(filepath.Join(m.Dir(), readmeFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", readmeFile, err)
	}
	rendered, err := glamour.Render(string(readme), a.markdownStyle)
	if err != nil {
		return fmt.Errorf("render %s: %w", readmeFile, err)
	}
	fmt.Fprint(a.stdout, rendered)
	return nil
}

func (a *App) moduleConfigValue(cmd *cobra.Command, name, file, key string) error {
	application, err := a.newApplication(cmd.Context(), app.ModeRun, "", nil)
	if err == nil {
		err = application.Build(cmd.Context())
	}
	var m *modulelist.Module
	if err == nil {
		m, err = application.ModuleList().GetModuleForName(name)
	}
	if err == nil {
		err = m.Load()
	}
	if err != nil {
		cmd.SilenceErrors = true
		return a.fail(err)
	}

	files := m.Config()
	if files == nil {
		return fmt.Errorf("%w: %s", config.ErrModuleConfigFileNotFound, file)
	}
	value, ok := files.GetValue(file, key)
	if !ok {
		if _, err := files.Get(file); err != nil {
			return err
		}
		return fmt.Errorf("key %q is not set in %s", key, file)
	}
	fmt.Fprintln(a.stdout, value)
	return nil
}

func moduleConfigNames(files *config.ModuleFiles) []string {
	if files == nil {
		return nil
	}
	return files.Names()
}
