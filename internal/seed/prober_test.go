// SPDX-License-Identifier: MPL-2.0

package seed

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
)

const testSeedDir = "/var/lib/cloud/seed"

// deniedFs fails every Stat with a permission error.
type deniedFs struct{ afero.Fs }

func (deniedFs) Stat(name string) (os.FileInfo, error) {
	return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrPermission}
}

func TestProber_Path(t *testing.T) {
	t.Parallel()

	p := NewProber(afero.NewMemMapFs(), testSeedDir)

	tests := []struct {
		prefix   Prefix
		seedType string
		file     string
		want     string
	}{
		{NoPrefix, "azure", "ovf-env.xml", "/var/lib/cloud/seed/azure/ovf-env.xml"},
		{WritablePrefix, "nocloud", "user-data", "/writable/system-data/var/lib/cloud/seed/nocloud/user-data"},
		{NoPrefix, "config_drive", "openstack/latest/meta_data.json", "/var/lib/cloud/seed/config_drive/openstack/latest/meta_data.json"},
	}
	for _, tt := range tests {
		if got := p.Path(tt.prefix, tt.seedType, tt.file).String(); got != tt.want {
			t.Errorf("Path(%q, %q, %q) = %q, want %q", tt.prefix, tt.seedType, tt.file, got, tt.want)
		}
	}
}

func TestProber_Exists(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/var/lib/cloud/seed/nocloud-net/user-data", nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.MkdirAll("/writable/system-data/var/lib/cloud/seed/nocloud/meta-data", 0o755); err != nil {
		t.Fatal(err)
	}
	p := NewProber(fs, testSeedDir)

	tests := []struct {
		name     string
		prefix   Prefix
		seedType string
		file     string
		want     bool
	}{
		{"file present", NoPrefix, "nocloud-net", "user-data", true},
		{"file missing", NoPrefix, "nocloud-net", "meta-data", false},
		{"other prefix not consulted", WritablePrefix, "nocloud-net", "user-data", false},
		{"directory counts as present", WritablePrefix, "nocloud", "meta-data", true},
		{"missing seed type", NoPrefix, "azure", "ovf-env.xml", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := p.Exists(tt.prefix, tt.seedType, tt.file); got != tt.want {
				t.Errorf("Exists() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProber_ExistsAll(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	for _, f := range []string{"user-data", "meta-data"} {
		if err := afero.WriteFile(fs, "/var/lib/cloud/seed/nocloud/"+f, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p := NewProber(fs, testSeedDir)

	if !p.ExistsAll(NoPrefix, "nocloud", "user-data", "meta-data") {
		t.Error("ExistsAll() = false with both files present")
	}
	if p.ExistsAll(NoPrefix, "nocloud", "user-data", "vendor-data") {
		t.Error("ExistsAll() = true with vendor-data missing")
	}
}

func TestProber_StatErrorIsNotFound(t *testing.T) {
	t.Parallel()

	p := NewProber(deniedFs{afero.NewMemMapFs()}, testSeedDir)
	if p.Exists(NoPrefix, "azure", "ovf-env.xml") {
		t.Error("Exists() = true on a permission error, want false")
	}
	if _, err := (deniedFs{}).Stat("x"); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("deniedFs should report permission errors, got %v", err)
	}
}
