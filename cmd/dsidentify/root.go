// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/dsidentify/internal/app/identify"
	"github.com/invowk/dsidentify/internal/config"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) (*cobra.Command, error) {
	v, err := config.NewFlagViper()
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Detect the cloud-init datasource for this machine",
		Long: TitleStyle.Render(config.AppName) + SubtitleStyle.Render(" - detect the cloud-init datasource for this machine") + `

ds-identify reads the datasource_list configured for cloud-init, keeps the
entries whose platform signals (DMI identity strings, seed files) are
present, and writes the result to run/cloud-init/cloud.cfg.

Every path is resolved below the root prefix: --root, else $PATH_ROOT,
else /.

` + SubtitleStyle.Render("Examples:") + `
  ds-identify                    Detect and write the datasource list
  ds-identify --dry-run          Print the list instead of writing it
  ds-identify --root /mnt/image  Inspect an offline image
  ds-identify explain -v         Show why each candidate matched`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runIdentify(cmd, v)
		},
	}

	if err := config.BindFlags(v, root.PersistentFlags()); err != nil {
		return nil, err
	}
	root.AddCommand(newExplainCommand(app, v))
	return root, nil
}

func (a *App) runIdentify(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()
	cfg, err := a.setup(ctx, config.LoadOptions{Viper: v})
	if err != nil {
		return a.fail(cmd, err, false)
	}

	if _, err := identify.Run(ctx, a.identifyOptions(cfg)); err != nil {
		return a.fail(cmd, err, cfg.Verbose)
	}
	return nil
}

// fail renders err with its issue catalog entry and returns the ExitError
// that makes Execute exit non-zero.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	renderServiceError(a.stderr, classifyError(err, verbose))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// errorHandler leaves ExitErrors alone, since they were rendered already.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs the CLI and exits with the resulting status. It is called
// by main.main().
func Execute() {
	os.Exit(int(Run(context.Background())))
}

// Run runs the CLI with os.Args and returns the process exit code.
func Run(ctx context.Context) types.ExitCode {
	err := execute(ctx)
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

func execute(ctx context.Context) error {
	app, err := NewApp(Dependencies{})
	if err != nil {
		return err
	}
	root, err := NewRootCommand(app)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return err
	}
	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	)
}
