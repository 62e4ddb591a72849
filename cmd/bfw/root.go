// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/bfw-systems/bfw/internal/app"
	"github.com/bfw-systems/bfw/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App wires the CLI to its dependencies. Command handlers receive an App
	// and never touch os.Stdout or os.Stderr directly.
	App struct {
		Config config.Provider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// markdownStyle is the glamour style used for issue pages and READMEs.
		markdownStyle string

		rootDir    string
		configFile string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config        config.Provider
		Stdin         io.Reader
		Stdout        io.Writer
		Stderr        io.Writer
		MarkdownStyle string
	}
)

// NewApp creates an App, filling unset dependencies with defaults.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.MarkdownStyle == "" {
		deps.MarkdownStyle = "dark"
	}
	return &App{
		Config:        deps.Config,
		stdin:         deps.Stdin,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
		markdownStyle: deps.MarkdownStyle,
	}
}

// NewRootCommand builds the bfw command tree around app.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "bfw",
		Short: "Modular application bootstrap",
		Long: TitleStyle.Render("bfw") + SubtitleStyle.Render(" - modular application bootstrap") + `

bfw discovers the modules under app/modules, orders them from their
needMe declarations and runs them layer by layer.

` + SubtitleStyle.Render("Examples:") + `
  bfw run                   Load and run every module
  bfw run --file task.sh    Run the modules, then src/cli/task.sh
  bfw tree                  Show the module load tree
  bfw install               Run the module install scripts
  bfw module show blog      Show one module`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&a.rootDir, "root", "r", ".", "application root directory")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is <root>/app/config/bfw/config.cue)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(newRunCommand(a))
	root.AddCommand(newInstallCommand(a))
	root.AddCommand(newTreeCommand(a))
	root.AddCommand(newModuleCommand(a))
	root.AddCommand(newConfigCommand(a))

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command line and exits the process with the command's
// exit code. It is called by main.main().
func Execute() {
	root := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// loadConfig loads the configuration for the selected root. --verbose forces
// the debug level.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configFile, RootDir: a.rootDir})
	if err != nil {
		return nil, err
	}
	if a.verbose {
		cfg.Log.Level = config.LogLevelDebug
	}
	return cfg, nil
}

// newApplication builds a framework instance from the CLI flags.
func (a *App) newApplication(ctx context.Context, mode app.Mode, cliFile string, cliArgs []string) (*app.Application, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, app.Options{
		RootDir:        a.rootDir,
		ConfigProvider: config.StaticProvider{Config: cfg},
		Mode:           mode,
		CliFile:        cliFile,
		CliArgs:        cliArgs,
		Stdin:          a.stdin,
		Stdout:         a.stdout,
		Stderr:         a.stderr,
		// The CLI renders failures itself.
		Reporter: app.ReporterFunc(func(error) {}),
	})
}
