// SPDX-License-Identifier: MPL-2.0

package dslist

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/invowk/dsidentify/internal/datasource"
	"github.com/invowk/dsidentify/pkg/fspath"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/spf13/afero"
)

const (
	// SourceDefault means no configuration defined the list.
	SourceDefault Source = iota
	// SourceBase means the list came from the base cloud.cfg.
	SourceBase
	// SourceFragment means the list came from a cloud.cfg.d fragment.
	SourceFragment
)

type (
	// Source identifies where the resolved list came from.
	Source int

	// Resolver reads datasource_list from the base configuration file and
	// the fragment directory.
	Resolver struct {
		fs      afero.Fs
		base    types.FilesystemPath
		fragDir types.FilesystemPath
	}

	// Result is the outcome of Resolve.
	Result struct {
		// List is the candidate list, in configuration order.
		List []datasource.Name
		// Source tells which kind of source supplied List.
		Source Source
		// Path is the file that supplied List; empty for SourceDefault.
		Path types.FilesystemPath
		// Diagnostics lists every source that was skipped.
		Diagnostics []Diagnostic
	}
)

// String returns the lowercase source name used in logs.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceBase:
		return "base"
	case SourceFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// NewResolver creates a Resolver for the given base file and fragment
// directory, both absolute paths inside fsys.
func NewResolver(fsys afero.Fs, base, fragDir types.FilesystemPath) *Resolver {
	return &Resolver{fs: fsys, base: base, fragDir: fragDir}
}

// Resolve returns the effective candidate list. It never fails.
func (r *Resolver) Resolve() Result {
	var res Result

	list, ok, diags := r.readSource(r.base)
	res.Diagnostics = append(res.Diagnostics, diags...)
	if ok {
		res.List, res.Source, res.Path = list, SourceBase, r.base
	}

	fragments, diag := r.fragments()
	if diag != nil {
		res.Diagnostics = append(res.Diagnostics, *diag)
	}
	for _, path := range fragments {
		list, ok, diags := r.readSource(path)
		res.Diagnostics = append(res.Diagnostics, diags...)
		if ok {
			slog.Debug("datasource_list overridden by fragment", "path", path.String(), "previous", res.Source.String())
			res.List, res.Source, res.Path = list, SourceFragment, path
		}
	}

	if res.Source == SourceDefault {
		res.List = datasource.DefaultList()
	}
	return res
}

// fragments lists the regular entries of the fragment directory in
// lexicographic order. A missing directory yields no fragments.
func (r *Resolver) fragments() ([]types.FilesystemPath, *Diagnostic) {
	infos, err := afero.ReadDir(r.fs, r.fragDir.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no configuration fragment directory", "path", r.fragDir.String())
			return nil, nil
		}
		return nil, &Diagnostic{
			Severity: SeverityError,
			Code:     CodeFragmentDirUnreadable,
			Message:  "cannot list configuration fragments",
			Path:     r.fragDir,
			Cause:    err,
		}
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			slog.Debug("skipping directory in fragment directory", "name", info.Name())
			continue
		}
		names = append(names, info.Name())
	}
	slices.Sort(names)

	paths := make([]types.FilesystemPath, len(names))
	for i, name := range names {
		paths[i] = fspath.JoinStr(r.fragDir, name)
	}
	return paths, nil
}

// readSource reads one file and extracts its list. A missing file is a
// silent absence; every other failure is a diagnostic.
func (r *Resolver) readSource(path types.FilesystemPath) ([]datasource.Name, bool, []Diagnostic) {
	data, err := afero.ReadFile(r.fs, path.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("configuration file not present", "path", path.String())
			return nil, false, nil
		}
		return nil, false, []Diagnostic{{
			Severity: SeverityError,
			Code:     CodeReadFailed,
			Message:  "cannot read configuration file",
			Path:     path,
			Cause:    err,
		}}
	}

	list, ok, diags := Extract(data)
	for i := range diags {
		diags[i].Path = path
	}
	if ok {
		slog.Debug("datasource_list found", "path", path.String(), "count", len(list))
	}
	return list, ok, diags
}

// Validate reports every name in the result that is outside the supported
// set. Unknown names are not an error during detection; this is for the
// explain view.
func (res Result) Validate() []error {
	var errs []error
	for _, name := range res.List {
		if err := name.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Source, err))
		}
	}
	return errs
}
