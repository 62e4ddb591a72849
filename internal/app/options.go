// SPDX-License-Identifier: MPL-2.0

package app

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/config"
	"github.com/bfw-systems/bfw/internal/observer"
	"github.com/bfw-systems/bfw/internal/runner"
)

const (
	// ModeRun loads and runs every module, then the cli file if any.
	ModeRun Mode = iota
	// ModeInstall loads every module and runs their install scripts.
	ModeInstall
)

type (
	// Mode selects the run steps.
	Mode int

	// Options configures New. Only RootDir is required.
	Options struct {
		// RootDir is the application root holding app/ and src/.
		RootDir string
		// ConfigFile replaces <RootDir>/app/config/bfw/config.cue when set.
		ConfigFile string
		// ConfigProvider loads the configuration. config.NewProvider() when nil.
		ConfigProvider config.Provider
		// Mode selects run or install steps.
		Mode Mode
		// CliFile is a script under the cli directory run after the modules.
		CliFile string
		// CliArgs are passed to the cli file as $1, $2, ...
		CliArgs []string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// Logger replaces the logger built from the log configuration.
		Logger *log.Logger
		// Reporter receives the error of a failed Run.
		Reporter Reporter
		// Observers are attached to the ApplicationTasks subject.
		Observers []observer.Observer
		// Hooks are Go run callbacks keyed by module name.
		Hooks map[string]runner.Hook
		// LoadHooks are Go callbacks run right after a module is loaded.
		LoadHooks map[string]runner.Hook
	}

	// Paths are the directories of an application.
	Paths struct {
		Root    string
		Modules string
		Config  string
		Cli     string
	}
)

// NewPaths derives the application directories from root and the cli
// directory of cfg.
func NewPaths(root string, cfg *config.Config) Paths {
	cliDir := config.DefaultConfig().Cli.Dir
	if cfg != nil && cfg.Cli.Dir != "" {
		cliDir = cfg.Cli.Dir
	}
	return Paths{
		Root:    root,
		Modules: filepath.Join(root, "app", "modules"),
		Config:  config.ConfigDir(root),
		Cli:     filepath.Join(root, filepath.FromSlash(cliDir)),
	}
}

func (m Mode) String() string {
	if m == ModeInstall {
		return "install"
	}
	return "run"
}
