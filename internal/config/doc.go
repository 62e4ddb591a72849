// SPDX-License-Identifier: MPL-2.0

// Package config handles framework configuration using Viper with CUE as the
// file format.
//
// The framework configuration is read from <root>/app/config/bfw/config.cue,
// or from an explicit file, and validated against the embedded #Config schema
// (config_schema.cue). Values can be overridden with BFW_* environment
// variables, e.g. BFW_LOG_LEVEL=debug or BFW_DEPENDENCIES_STRICT=false.
//
// Per-module configuration directories (<root>/app/config/<module>/) are read
// by LoadModuleFiles. Each JSON, YAML or TOML file gets its own Viper instance.
package config
