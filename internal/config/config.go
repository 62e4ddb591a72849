// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/bfw-systems/bfw/internal/issue"
	"github.com/bfw-systems/bfw/pkg/cueutil"
)

const (
	// AppName is the application name, also the framework config directory name.
	AppName = "bfw"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (BFW_LOG_LEVEL, ...).
	EnvPrefix = "BFW"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns <root>/app/config, the parent of every config directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir(root string) string {
	return filepath.Join(root, "app", "config")
}

// FilePath returns <root>/app/config/bfw/config.cue.
func FilePath(root string) string {
	return filepath.Join(ConfigDir(root), AppName, ConfigFileName+"."+ConfigFileExt)
}

// loadWithOptions performs option-driven config loading. It returns the
// config and the path it was read from ("" when only defaults apply).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("modules", defaults.Modules)
	v.SetDefault("log.level", defaults.Log.Level.String())
	v.SetDefault("log.format", defaults.Log.Format.String())
	v.SetDefault("dependencies.strict", defaults.Dependencies.Strict)
	v.SetDefault("cli.dir", defaults.Cli.Dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""
	switch {
	case opts.ConfigFilePath != "":
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'bfw config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	case opts.RootDir != "":
		if path := FilePath(opts.RootDir); fileExists(path) {
			resolvedPath = path
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema, so the enums are checked again.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check BFW_* environment variables and config.cue values").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config decodes to map[string]any with Concrete(false) because every field is
// optional, so cueutil.ParseAndDecode is not used here.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge preserves defaults and env overrides.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config.cue under root when missing
// and returns its path.
func CreateDefaultConfig(root string) (string, error) {
	cfgPath := FilePath(root)
	if fileExists(cfgPath) {
		return cfgPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// bfw framework configuration\n\n")

	if len(cfg.Modules) > 0 {
		sb.WriteString("modules: [\n")
		for _, m := range cfg.Modules {
			fmt.Fprintf(&sb, "\t{name: %q, enabled: %v},\n", m.Name, m.Enabled)
		}
		sb.WriteString("]\n")
	} else {
		sb.WriteString("modules: []\n")
	}

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel:  %q\n", cfg.Log.Level)
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Log.Format)
	sb.WriteString("}\n")

	sb.WriteString("\ndependencies: {\n")
	fmt.Fprintf(&sb, "\tstrict: %v\n", cfg.Dependencies.Strict)
	sb.WriteString("}\n")

	sb.WriteString("\ncli: {\n")
	fmt.Fprintf(&sb, "\tdir: %q\n", cfg.Cli.Dir)
	sb.WriteString("}\n")

	return sb.String()
}
