// SPDX-License-Identifier: MPL-2.0

package datasource

import (
	"testing"

	"github.com/invowk/dsidentify/internal/dmi"
	"github.com/invowk/dsidentify/internal/seed"

	"github.com/spf13/afero"
)

const (
	testDMIDir  = "/sys/class/dmi/id"
	testSeedDir = "/var/lib/cloud/seed"
)

// fixture describes a machine for the checks to look at.
type fixture struct {
	dmi   map[string]string
	files []string
}

func (f fixture) engine(t *testing.T) *Engine {
	t.Helper()
	fs := afero.NewMemMapFs()
	for field, value := range f.dmi {
		if err := afero.WriteFile(fs, testDMIDir+"/"+field, []byte(value+"\n"), 0o444); err != nil {
			t.Fatalf("write dmi %s: %v", field, err)
		}
	}
	for _, path := range f.files {
		if err := afero.WriteFile(fs, path, nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return NewEngine(&Environment{
		Identity: dmi.NewReader(fs, testDMIDir),
		Seeds:    seed.NewProber(fs, testSeedDir),
	})
}
