// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LogLevelDebug logs module discovery and every lifecycle step.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs lenient-mode dependency drops and skipped entries.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// LogFormatText is the human readable format.
	LogFormatText LogFormat = "text"
	// LogFormatJSON emits one JSON object per line.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt emits key=value pairs.
	LogFormatLogfmt LogFormat = "logfmt"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidCoreModule is the sentinel error wrapped by InvalidCoreModuleError.
	ErrInvalidCoreModule = errors.New("invalid core module entry")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written by the framework logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// LogFormat selects the log formatter.
	LogFormat string

	// InvalidLogFormatError is returned when a LogFormat value is not recognized.
	InvalidLogFormatError struct {
		Value LogFormat
	}

	// InvalidCoreModuleError reports a core module entry with a bad name.
	InvalidCoreModuleError struct {
		Index int
		Name  string
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// CoreModule is a module run before the application modules.
	CoreModule struct {
		Name    string `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
		Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	}

	// Config holds the framework configuration.
	Config struct {
		// Modules lists the core modules, run first in declaration order.
		Modules []CoreModule `json:"modules" yaml:"modules" toml:"modules" mapstructure:"modules"`
		// Log configures the framework logger.
		Log LogConfig `json:"log" yaml:"log" toml:"log" mapstructure:"log"`
		// Dependencies configures load-tree construction.
		Dependencies DependenciesConfig `json:"dependencies" yaml:"dependencies" toml:"dependencies" mapstructure:"dependencies"`
		// Cli configures cli script lookup.
		Cli CliConfig `json:"cli" yaml:"cli" toml:"cli" mapstructure:"cli"`
	}

	// LogConfig configures the framework logger.
	LogConfig struct {
		Level  LogLevel  `json:"level" yaml:"level" toml:"level" mapstructure:"level"`
		Format LogFormat `json:"format" yaml:"format" toml:"format" mapstructure:"format"`
	}

	// DependenciesConfig configures dependency resolution.
	DependenciesConfig struct {
		// Strict fails the build when needMe names an unknown module.
		// When false the edge is dropped with a warning.
		Strict bool `json:"strict" yaml:"strict" toml:"strict" mapstructure:"strict"`
	}

	// CliConfig configures cli scripts.
	CliConfig struct {
		// Dir is the cli scripts directory relative to the application root.
		Dir string `json:"dir" yaml:"dir" toml:"dir" mapstructure:"dir"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Modules: []CoreModule{},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Dependencies: DependenciesConfig{Strict: true},
		Cli:          CliConfig{Dir: "src/cli"},
	}
}

// EnabledModules returns the names of enabled core modules in config order.
func (c *Config) EnabledModules() []string {
	var names []string
	for _, m := range c.Modules {
		if m.Enabled {
			names = append(names, m.Name)
		}
	}
	return names
}

// IsValid checks the fields CUE cannot check after environment overrides.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	seen := make(map[string]bool, len(c.Modules))
	for i, m := range c.Modules {
		name := strings.TrimSpace(m.Name)
		if name == "" || strings.ContainsAny(name, `/\`) || seen[name] {
			errs = append(errs, &InvalidCoreModuleError{Index: i, Name: m.Name})
		}
		seen[name] = true
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// IsValid returns whether the LogFormat is one of the defined formats.
func (f LogFormat) IsValid() (bool, []error) {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return true, nil
	default:
		return false, []error{&InvalidLogFormatError{Value: f}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (e *InvalidLogFormatError) Error() string {
	return fmt.Sprintf("invalid log format %q (valid: text, json, logfmt)", e.Value)
}

// Unwrap returns ErrInvalidLogFormat for errors.Is() compatibility.
func (e *InvalidLogFormatError) Unwrap() error { return ErrInvalidLogFormat }

func (e *InvalidCoreModuleError) Error() string {
	return fmt.Sprintf("modules[%d]: invalid or duplicate module name %q", e.Index, e.Name)
}

// Unwrap returns ErrInvalidCoreModule for errors.Is() compatibility.
func (e *InvalidCoreModuleError) Unwrap() error { return ErrInvalidCoreModule }

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes ErrInvalidConfig and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
