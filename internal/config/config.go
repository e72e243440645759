// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/invowk/dsidentify/pkg/fspath"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "ds-identify"
	// EnvPrefix prefixes the environment variables for every setting except the root.
	EnvPrefix = "DS_IDENTIFY"
	// EnvPathRoot names the environment variable holding the root prefix.
	EnvPathRoot = "PATH_ROOT"

	// DefaultRoot is used when neither the flag nor PATH_ROOT is set.
	DefaultRoot types.FilesystemPath = "/"

	// Viper keys. Flag names use dashes; BindFlags maps them onto these.
	KeyRoot      = "root"
	KeyVerbose   = "verbose"
	KeyDryRun    = "dry_run"
	KeyLogFormat = "log_format"
)

type (
	// Config is the resolved run configuration.
	Config struct {
		// Root is the prefix every fixed location is resolved under.
		Root types.FilesystemPath `mapstructure:"root"`
		// Verbose lowers the log level to debug.
		Verbose bool `mapstructure:"verbose"`
		// DryRun prints the decision instead of writing it.
		DryRun bool `mapstructure:"dry_run"`
		// LogFormat selects the stderr log encoding.
		LogFormat LogFormat `mapstructure:"log_format"`
	}

	// Layout names the fixed cloud-init locations, as absolute paths inside
	// the filesystem rooted at Config.Root.
	Layout struct {
		CloudConfig    types.FilesystemPath
		CloudConfigDir types.FilesystemPath
		Output         types.FilesystemPath
		DMIDir         types.FilesystemPath
		SeedDir        types.FilesystemPath
	}
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Root:      DefaultRoot,
		LogFormat: LogFormatText,
	}
}

// DefaultLayout returns the locations cloud-init reads and writes.
func DefaultLayout() Layout {
	return Layout{
		CloudConfig:    "/etc/cloud/cloud.cfg",
		CloudConfigDir: "/etc/cloud/cloud.cfg.d",
		Output:         "/run/cloud-init/cloud.cfg",
		DMIDir:         "/sys/class/dmi/id",
		SeedDir:        "/var/lib/cloud/seed",
	}
}

// Validate checks every field and returns an *InvalidConfigError listing
// all failures, or nil.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Root.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("root: %w", err))
	}
	if err := c.LogFormat.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log_format: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Filesystem returns the host filesystem rooted at c.Root. Paths from
// Layout are resolved inside it, so "/etc/cloud/cloud.cfg" means
// "<root>/etc/cloud/cloud.cfg".
func (c *Config) Filesystem() afero.Fs {
	if fspath.Clean(c.Root) == DefaultRoot {
		return afero.NewOsFs()
	}
	return afero.NewBasePathFs(afero.NewOsFs(), c.Root.String())
}

// HostPath maps a Layout path to the path on the host, for log output.
func (c *Config) HostPath(p types.FilesystemPath) types.FilesystemPath {
	return fspath.Join(c.Root, p)
}

// BindFlags registers the persistent flags backing the configuration on fs
// and binds them into v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	defaults := DefaultConfig()
	fs.String("root", "", "root filesystem prefix (default $PATH_ROOT or /)")
	fs.BoolP("verbose", "v", defaults.Verbose, "enable debug logging")
	fs.Bool("dry-run", defaults.DryRun, "print the datasource list instead of writing it")
	fs.String("log-format", defaults.LogFormat.String(), "log format: text, json or logfmt")

	bindings := map[string]string{
		KeyRoot:      "root",
		KeyVerbose:   "verbose",
		KeyDryRun:    "dry-run",
		KeyLogFormat: "log-format",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// newViper returns a Viper instance with defaults and environment bindings.
func newViper() (*viper.Viper, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault(KeyRoot, defaults.Root.String())
	v.SetDefault(KeyVerbose, defaults.Verbose)
	v.SetDefault(KeyDryRun, defaults.DryRun)
	v.SetDefault(KeyLogFormat, defaults.LogFormat.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyRoot, EnvPathRoot); err != nil {
		return nil, fmt.Errorf("bind %s: %w", EnvPathRoot, err)
	}
	return v, nil
}

// loadWithOptions resolves the configuration from the Viper instance in opts
// (or a fresh one) without touching package state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := opts.Viper
	if v == nil {
		var err error
		if v, err = newViper(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.Root.IsAbs() {
		abs, err := fspath.Abs(cfg.Root)
		if err != nil {
			return nil, err
		}
		cfg.Root = abs
	}
	cfg.Root = fspath.Clean(cfg.Root)

	return &cfg, nil
}
