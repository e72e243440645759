// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/invowk/dsidentify/internal/app/identify"
	"github.com/invowk/dsidentify/internal/config"

	"github.com/spf13/afero"
)

type (
	// App is the composition root for the ds-identify CLI.
	App struct {
		Config     ConfigProvider
		Filesystem FilesystemFactory

		layout config.Layout
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies are optional overrides used to construct an App.
	// Omitted fields get production defaults.
	Dependencies struct {
		Config     ConfigProvider
		Filesystem FilesystemFactory
		// Layout overrides the fixed cloud-init locations.
		Layout *config.Layout
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// FilesystemFactory returns the filesystem a run reads and writes, rooted
	// at cfg.Root.
	FilesystemFactory func(cfg *config.Config) afero.Fs
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Filesystem == nil {
		deps.Filesystem = (*config.Config).Filesystem
	}
	layout := config.DefaultLayout()
	if deps.Layout != nil {
		layout = *deps.Layout
	}

	return &App{
		Config:     deps.Config,
		Filesystem: deps.Filesystem,
		layout:     layout,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}, nil
}

// setup loads the configuration and installs the logger it asks for.
func (a *App) setup(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(a.stderr, cfg))
	return cfg, nil
}

// identifyOptions builds the run options for cfg.
func (a *App) identifyOptions(cfg *config.Config) identify.Options {
	return identify.Options{
		Fs:     a.Filesystem(cfg),
		Layout: a.layout,
		Root:   cfg.Root,
		DryRun: cfg.DryRun,
		Stdout: a.stdout,
	}
}
