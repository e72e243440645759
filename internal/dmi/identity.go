// SPDX-License-Identifier: MPL-2.0

package dmi

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/invowk/dsidentify/pkg/fspath"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/spf13/afero"
)

const (
	// ChassisAssetTag is the chassis asset tag (chassis_asset_tag).
	ChassisAssetTag Field = iota
	// ProductName is the system product name (product_name).
	ProductName
	// ProductSerial is the system serial number (product_serial).
	ProductSerial
	// ProductUUID is the SMBIOS system UUID (product_uuid).
	ProductUUID

	fieldCount
)

// fieldFiles maps each Field to its file name under the DMI directory.
var fieldFiles = [fieldCount]string{
	ChassisAssetTag: "chassis_asset_tag",
	ProductName:     "product_name",
	ProductSerial:   "product_serial",
	ProductUUID:     "product_uuid",
}

type (
	// Field identifies one firmware identity string.
	Field int

	// Reader reads identity fields lazily and caches each one for the
	// lifetime of the Reader. Every field has its own once-initialized slot,
	// so concurrent reads of different fields never contend and a field is
	// read from storage at most once.
	Reader struct {
		fs    afero.Fs
		dir   types.FilesystemPath
		slots [fieldCount]slot
	}

	slot struct {
		once  sync.Once
		value string
		ok    bool
	}
)

// String returns the sysfs file name of the field.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldFiles[f]
}

// Fields returns every known field in declaration order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := range fieldCount {
		out = append(out, f)
	}
	return out
}

// NewReader creates a Reader for the DMI directory dir inside fsys.
func NewReader(fsys afero.Fs, dir types.FilesystemPath) *Reader {
	return &Reader{fs: fsys, dir: dir}
}

// Read returns the trimmed value of field and whether it is present.
// Unknown fields are always absent.
func (r *Reader) Read(field Field) (string, bool) {
	if field < 0 || field >= fieldCount {
		return "", false
	}
	s := &r.slots[field]
	s.once.Do(func() {
		s.value, s.ok = r.load(field)
	})
	return s.value, s.ok
}

// Prefetch reads every field concurrently. It is optional: Read loads
// fields on demand with the same result.
func (r *Reader) Prefetch() {
	var wg sync.WaitGroup
	for _, f := range Fields() {
		wg.Go(func() { r.Read(f) })
	}
	wg.Wait()
}

// ChassisAssetTag returns the chassis asset tag.
func (r *Reader) ChassisAssetTag() (string, bool) { return r.Read(ChassisAssetTag) }

// ProductName returns the product name.
func (r *Reader) ProductName() (string, bool) { return r.Read(ProductName) }

// ProductSerial returns the product serial.
func (r *Reader) ProductSerial() (string, bool) { return r.Read(ProductSerial) }

// ProductUUID returns the product UUID.
func (r *Reader) ProductUUID() (string, bool) { return r.Read(ProductUUID) }

// Equals reports whether field is present and exactly equal to want.
func (r *Reader) Equals(field Field, want string) bool {
	v, ok := r.Read(field)
	return ok && v == want
}

// HasPrefix reports whether field is present and starts with prefix.
func (r *Reader) HasPrefix(field Field, prefix string) bool {
	v, ok := r.Read(field)
	return ok && strings.HasPrefix(v, prefix)
}

func (r *Reader) load(field Field) (string, bool) {
	path := fspath.JoinStr(r.dir, field.String())
	data, err := afero.ReadFile(r.fs, path.String())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("dmi field unreadable", "field", field.String(), "path", path.String(), "error", err)
		}
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
