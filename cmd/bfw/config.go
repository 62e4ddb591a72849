// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bfw-systems/bfw/internal/config"
)

const formatCUE = "cue"

func newConfigCommand(a *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the framework configuration",
		Long: `Manage the framework configuration.

The configuration is read from <root>/app/config/bfw/config.cue. Any key can
be overridden with a BFW_ prefixed variable, for example BFW_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd.Context())
			if err != nil {
				cmd.SilenceErrors = true
				return a.fail(err)
			}
			switch format {
			case formatText:
				fmt.Fprint(a.stdout, a.renderConfig(cfg))
				return nil
			case formatCUE:
				fmt.Fprint(a.stdout, config.GenerateCUE(cfg))
				return nil
			default:
				return encodeDocument(a.stdout, format, cfg)
			}
		},
	}
	showCmd.Flags().StringVar(&format, "format", formatText, "output format: text, cue, json, yaml or toml")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := config.CreateDefaultConfig(a.rootDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(a.stdout, config.FilePath(a.rootDir))
			return nil
		},
	})

	return cfgCmd
}

func (a *App) renderConfig(cfg *config.Config) string {
	var b strings.Builder
	key := func(k string) string { return ModuleStyle.Render(k) }
	value := func(v any) string { return SuccessStyle.Render(fmt.Sprint(v)) }

	fmt.Fprintln(&b, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%s: %s\n", key("Config file"), config.FilePath(a.rootDir))
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "%s:\n", key("modules"))
	if len(cfg.Modules) == 0 {
		fmt.Fprintf(&b, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, m := range cfg.Modules {
		state := "enabled"
		if !m.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&b, "  - %s %s\n", value(m.Name), SubtitleStyle.Render("("+state+")"))
	}

	fmt.Fprintf(&b, "%s:\n", key("log"))
	fmt.Fprintf(&b, "  level: %s\n", value(cfg.Log.Level))
	fmt.Fprintf(&b, "  format: %s\n", value(cfg.Log.Format))
	fmt.Fprintf(&b, "%s:\n", key("dependencies"))
	fmt.Fprintf(&b, "  strict: %s\n", value(cfg.Dependencies.Strict))
	fmt.Fprintf(&b, "%s:\n", key("cli"))
	fmt.Fprintf(&b, "  dir: %s\n", value(cfg.Cli.Dir))
	return b.String()
}
