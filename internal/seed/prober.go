// SPDX-License-Identifier: MPL-2.0

// Package seed probes for provisioning seed marker files under
// /var/lib/cloud/seed and its Ubuntu Core mirror under writable/system-data.
package seed

import (
	"log/slog"

	"github.com/invowk/dsidentify/pkg/fspath"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/spf13/afero"
)

const (
	// NoPrefix probes the seed directory directly under the root.
	NoPrefix Prefix = ""
	// WritablePrefix probes the mirror kept on the writable partition.
	WritablePrefix Prefix = "writable/system-data"
)

// Prefix is an optional path segment inserted between the root and the seed
// directory.
type Prefix string

// Prober answers existence questions about seed files.
type Prober struct {
	fs  afero.Fs
	dir types.FilesystemPath
}

// NewProber creates a Prober for the seed directory dir (an absolute path
// inside fsys, such as /var/lib/cloud/seed).
func NewProber(fsys afero.Fs, dir types.FilesystemPath) *Prober {
	return &Prober{fs: fsys, dir: dir}
}

// Path returns the location probed for the given arguments.
func (p *Prober) Path(prefix Prefix, seedType, filename string) types.FilesystemPath {
	return fspath.Join("/", types.FilesystemPath(prefix), p.dir, types.FilesystemPath(seedType), types.FilesystemPath(filename))
}

// Exists reports whether an entry (file or directory) exists at the seed
// path. Errors other than "not found" are logged and reported as absent.
func (p *Prober) Exists(prefix Prefix, seedType, filename string) bool {
	path := p.Path(prefix, seedType, filename)
	ok, err := afero.Exists(p.fs, path.String())
	if err != nil {
		slog.Debug("seed path check failed", "path", path.String(), "error", err)
		return false
	}
	return ok
}

// ExistsAll reports whether every filename exists for seedType under prefix.
func (p *Prober) ExistsAll(prefix Prefix, seedType string, filenames ...string) bool {
	for _, name := range filenames {
		if !p.Exists(prefix, seedType, name) {
			return false
		}
	}
	return true
}
