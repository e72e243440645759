// SPDX-License-Identifier: MPL-2.0

package identify

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/dsidentify/internal/config"
	"github.com/invowk/dsidentify/internal/datasource"
	"github.com/invowk/dsidentify/internal/dmi"
	"github.com/invowk/dsidentify/internal/dslist"
	"github.com/invowk/dsidentify/internal/issue"
	"github.com/invowk/dsidentify/internal/output"
	"github.com/invowk/dsidentify/internal/testutil"

	"github.com/spf13/afero"
)

func options(fs afero.Fs) Options {
	return Options{Fs: fs, Layout: config.DefaultLayout(), Root: "/"}
}

func TestRun_NoSignalsWritesSentinelOnly(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	outcome, err := Run(context.Background(), options(fs))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !outcome.Written {
		t.Error("Written should be true")
	}
	if outcome.Resolution.Source != dslist.SourceDefault {
		t.Errorf("Source = %s, want default", outcome.Resolution.Source)
	}
	if want := []datasource.Name{datasource.None}; !slices.Equal(outcome.Report.Datasources, want) {
		t.Errorf("Datasources = %v, want %v", outcome.Report.Datasources, want)
	}

	got := testutil.NewMachine(t, fs).Output()
	if got != string(outcome.Document) {
		t.Errorf("file content differs from Outcome.Document:\n%s\n---\n%s", got, outcome.Document)
	}
}

func TestRun_ConfiguredListFiltered(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	m := testutil.NewMachine(t, fs).
		CloudConfig("datasource_list: [AliYun, Ec2]\n").
		Fragment("90_dpkg.cfg", "datasource_list: [GCE, AliYun, Oracle]\n").
		DMI("product_name", "Alibaba Cloud ECS").
		DMI("product_serial", "GoogleCloud-7F3A")

	outcome, err := Run(context.Background(), options(fs))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := []datasource.Name{datasource.GCE, datasource.AliYun, datasource.None}
	if !slices.Equal(outcome.Report.Datasources, want) {
		t.Errorf("Datasources = %v, want %v", outcome.Report.Datasources, want)
	}
	if !strings.Contains(m.Output(), "- GCE") {
		t.Errorf("output missing GCE:\n%s", m.Output())
	}
}

func TestRun_SingleCandidateSkipsChecks(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.NewMachine(t, fs).CloudConfig("datasource_list: [Azure]\n")

	outcome, err := Run(context.Background(), options(fs))
	if err != nil {
		t.Fatal(err)
	}
	if want := []datasource.Name{datasource.Azure, datasource.None}; !slices.Equal(outcome.Report.Datasources, want) {
		t.Errorf("Datasources = %v, want %v", outcome.Report.Datasources, want)
	}
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	m := testutil.NewMachine(t, fs).Seed("", "nocloud-net", "user-data", "meta-data")

	if _, err := Run(context.Background(), options(fs)); err != nil {
		t.Fatal(err)
	}
	first := m.Output()
	if _, err := Run(context.Background(), options(fs)); err != nil {
		t.Fatal(err)
	}
	if second := m.Output(); first != second || first == "" {
		t.Errorf("outputs differ or empty:\n%q\n%q", first, second)
	}
}

func TestRun_DryRunPrintsWithoutWriting(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	m := testutil.NewMachine(t, fs).DMI("chassis_asset_tag", "OracleCloud.com")

	var stdout bytes.Buffer
	opts := options(fs)
	opts.DryRun = true
	opts.Stdout = &stdout

	outcome, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Written {
		t.Error("dry run must not write")
	}
	if m.Output() != "" {
		t.Error("output file should not exist")
	}
	if stdout.String() != string(outcome.Document) || !strings.Contains(stdout.String(), "Oracle") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_WriteFailure(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), options(afero.NewReadOnlyFs(afero.NewMemMapFs())))
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Operation != output.OpCreateDir {
		t.Fatalf("Run() error = %v, want create directory failure", err)
	}
}

func TestDetect_CollectsIdentity(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.NewMachine(t, fs).DMI("product_name", "  Exoscale  ")

	opts := options(fs)
	opts.CollectIdentity = true
	outcome, err := Detect(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Written || outcome.Document != nil {
		t.Error("Detect must not render or write")
	}
	if len(outcome.Identity) != len(dmi.Fields()) {
		t.Fatalf("Identity has %d entries, want %d", len(outcome.Identity), len(dmi.Fields()))
	}
	for _, iv := range outcome.Identity {
		switch iv.Field {
		case dmi.ProductName:
			if !iv.Present || iv.Value != "Exoscale" {
				t.Errorf("product_name = %+v", iv)
			}
		default:
			if iv.Present {
				t.Errorf("%s should be absent, got %+v", iv.Field, iv)
			}
		}
	}
}

func TestDetect_Errors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Detect(ctx, options(afero.NewMemMapFs())); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context: err = %v", err)
	}
	if _, err := Detect(context.Background(), Options{}); !errors.Is(err, ErrMissingFilesystem) {
		t.Errorf("missing fs: err = %v", err)
	}
}
