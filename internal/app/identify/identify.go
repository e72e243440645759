// SPDX-License-Identifier: MPL-2.0

package identify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/invowk/dsidentify/internal/config"
	"github.com/invowk/dsidentify/internal/datasource"
	"github.com/invowk/dsidentify/internal/dmi"
	"github.com/invowk/dsidentify/internal/dslist"
	"github.com/invowk/dsidentify/internal/issue"
	"github.com/invowk/dsidentify/internal/output"
	"github.com/invowk/dsidentify/internal/seed"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/spf13/afero"
)

// ErrMissingFilesystem is returned when Options carries no filesystem.
var ErrMissingFilesystem = errors.New("identify: filesystem is required")

type (
	// Options configures a run.
	//
	// Fs is required and must already be rooted at the root prefix; Layout
	// paths are resolved inside it. Root is only used for log output.
	Options struct {
		Fs     afero.Fs
		Layout config.Layout
		Root   types.FilesystemPath

		// DryRun makes Run print the document to Stdout instead of writing it.
		DryRun bool
		Stdout io.Writer

		// CollectIdentity reads every DMI field up front and records them on
		// the Outcome.
		CollectIdentity bool
	}

	// IdentityValue is one DMI field as seen during the run.
	IdentityValue struct {
		Field   dmi.Field
		Value   string
		Present bool
	}

	// Outcome is everything a run decided.
	Outcome struct {
		Resolution dslist.Result
		Report     datasource.Report
		// Document is the rendered YAML; set by Run only.
		Document []byte
		// Written is true when Document was persisted to Layout.Output.
		Written bool
		// Identity is populated when Options.CollectIdentity is set.
		Identity []IdentityValue
	}
)

// Detect resolves the candidate list and evaluates it, without writing.
func Detect(ctx context.Context, opts Options) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("identify canceled: %w", err)
	}
	if opts.Fs == nil {
		return nil, ErrMissingFilesystem
	}

	slog.Debug("starting detection", "PATH_ROOT", opts.Root.String(), "CFG_OUT", opts.Layout.Output.String())

	resolution := dslist.NewResolver(opts.Fs, opts.Layout.CloudConfig, opts.Layout.CloudConfigDir).Resolve()
	logResolution(resolution)

	identity := dmi.NewReader(opts.Fs, opts.Layout.DMIDir)
	if opts.CollectIdentity {
		identity.Prefetch()
	}

	engine := datasource.NewEngine(&datasource.Environment{
		Identity: identity,
		Seeds:    seed.NewProber(opts.Fs, opts.Layout.SeedDir),
	})
	outcome := &Outcome{
		Resolution: resolution,
		Report:     engine.Detect(resolution.List),
	}

	if opts.CollectIdentity {
		for _, f := range dmi.Fields() {
			v, ok := identity.Read(f)
			outcome.Identity = append(outcome.Identity, IdentityValue{Field: f, Value: v, Present: ok})
		}
	}
	return outcome, nil
}

// Run performs a full pass: Detect, then write the result document to
// Layout.Output (or Stdout for a dry run).
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	outcome, err := Detect(ctx, opts)
	if err != nil {
		return nil, err
	}

	list := outcome.Report.Datasources
	slog.Info("datasource list detected", "datasources", datasource.Strings(list))

	doc, err := output.Encode(list)
	if err != nil {
		return outcome, issue.WrapWithContext(err, output.OpEncode, "")
	}
	outcome.Document = doc

	if opts.DryRun {
		if opts.Stdout != nil {
			if _, err := opts.Stdout.Write(doc); err != nil {
				return outcome, fmt.Errorf("print datasource list: %w", err)
			}
		}
		return outcome, nil
	}

	if err := output.NewWriter(opts.Fs, opts.Layout.Output).WriteDocument(doc); err != nil {
		return outcome, err
	}
	outcome.Written = true
	return outcome, nil
}

func logResolution(res dslist.Result) {
	for _, d := range res.Diagnostics {
		attrs := []any{"code", d.Code.String(), "path", d.Path.String()}
		if d.Cause != nil {
			attrs = append(attrs, "error", d.Cause)
		}
		if d.Severity == dslist.SeverityError {
			slog.Warn(d.Message, attrs...)
		} else {
			slog.Debug(d.Message, attrs...)
		}
	}
	slog.Debug("candidate list resolved",
		"source", res.Source.String(),
		"path", res.Path.String(),
		"datasources", datasource.Strings(res.List))
}
