// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bfw-systems/bfw/internal/app"
)

func newRunCommand(a *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run [--file <script>] [args...]",
		Short: "Load and run every module",
		Long: `Load every module of app/modules in dependency order, run the enabled
core modules from the configuration, then every other module layer by
layer. With --file, the named script of the cli directory runs last and
receives the remaining arguments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) > 0 {
				return fmt.Errorf("arguments %v need a cli file (--file)", args)
			}
			return a.runApplication(cmd, app.ModeRun, file, args)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "script of the cli directory to run after the modules")
	return cmd
}

func newInstallCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Run the module install scripts",
		Long: `Load every module in dependency order and run the install scripts
declared in their bfwModulesInfos.json. Configuration files shipped by a
module are copied to app/config/<module>/ unless already present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runApplication(cmd, app.ModeInstall, "", nil)
		},
	}
}

func (a *App) runApplication(cmd *cobra.Command, mode app.Mode, file string, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := a.newApplication(ctx, mode, file, args)
	if err != nil {
		cmd.SilenceErrors = true
		return a.fail(err)
	}
	if err := application.Run(ctx); err != nil {
		cmd.SilenceErrors = true
		return a.fail(err)
	}
	return nil
}
