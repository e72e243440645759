// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/spf13/viper"
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// Viper is a pre-configured instance (typically with flags bound via
	// NewFlagViper). A fresh environment-only instance is used when nil.
	Viper *viper.Viper
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type viperProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &viperProvider{}
}

// Load resolves the configuration from flags, environment and defaults.
func (p *viperProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}

// NewFlagViper returns a Viper instance carrying the defaults and
// environment bindings, ready for BindFlags.
func NewFlagViper() (*viper.Viper, error) {
	return newViper()
}
