// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// RootDir is the application root; <RootDir>/app/config/bfw/config.cue is
	// read when present.
	RootDir string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// StaticProvider returns a fixed configuration. Used when the caller already
// holds a Config.
type StaticProvider struct {
	Config *Config
}

// Load returns the wrapped configuration, or the defaults when it is nil.
func (p StaticProvider) Load(ctx context.Context, _ LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Config == nil {
		return DefaultConfig(), nil
	}
	return p.Config, nil
}
