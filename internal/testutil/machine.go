// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"

	"github.com/invowk/dsidentify/internal/config"
	"github.com/invowk/dsidentify/pkg/fspath"

	"github.com/spf13/afero"
)

// Machine populates a filesystem with the files a detection run reads,
// at the locations given by config.DefaultLayout.
//
//	fs := afero.NewMemMapFs()
//	testutil.NewMachine(t, fs).
//		DMI("product_name", "Google Compute Engine").
//		CloudConfig("datasource_list: [GCE, Ec2]\n")
type Machine struct {
	t      testing.TB
	fs     afero.Fs
	layout config.Layout
}

// NewMachine returns a Machine writing into fs.
func NewMachine(t testing.TB, fs afero.Fs) *Machine {
	t.Helper()
	return &Machine{t: t, fs: fs, layout: config.DefaultLayout()}
}

// DMI writes a DMI identity field with a trailing newline, as the kernel does.
func (m *Machine) DMI(field, value string) *Machine {
	m.t.Helper()
	MustWriteFile(m.t, m.fs, fspath.JoinStr(m.layout.DMIDir, field).String(), value+"\n")
	return m
}

// Seed creates empty seed files for seedType. prefix is "" or
// "writable/system-data".
func (m *Machine) Seed(prefix, seedType string, files ...string) *Machine {
	m.t.Helper()
	dir := fspath.JoinStr(fspath.JoinStr("/", prefix), m.layout.SeedDir.String(), seedType)
	for _, f := range files {
		MustWriteFile(m.t, m.fs, fspath.JoinStr(dir, f).String(), "")
	}
	return m
}

// CloudConfig writes the base configuration file.
func (m *Machine) CloudConfig(content string) *Machine {
	m.t.Helper()
	MustWriteFile(m.t, m.fs, m.layout.CloudConfig.String(), content)
	return m
}

// Fragment writes a file into the configuration fragment directory.
func (m *Machine) Fragment(name, content string) *Machine {
	m.t.Helper()
	MustWriteFile(m.t, m.fs, fspath.JoinStr(m.layout.CloudConfigDir, name).String(), content)
	return m
}

// Output returns the written result document, or "" when there is none.
func (m *Machine) Output() string {
	m.t.Helper()
	data, err := afero.ReadFile(m.fs, m.layout.Output.String())
	if err != nil {
		return ""
	}
	return string(data)
}
