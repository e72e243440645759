// SPDX-License-Identifier: MPL-2.0

package output

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"slices"
	"testing"

	"github.com/invowk/dsidentify/internal/datasource"
	"github.com/invowk/dsidentify/internal/issue"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const testOutput types.FilesystemPath = "/run/cloud-init/cloud.cfg"

// readOnlyFs rejects directory creation and file opens for writing.
type readOnlyFs struct {
	afero.Fs
	failMkdir bool
}

func (r readOnlyFs) MkdirAll(path string, perm os.FileMode) error {
	if r.failMkdir {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrPermission}
	}
	return r.Fs.MkdirAll(path, perm)
}

func (r readOnlyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return r.Fs.OpenFile(name, flag, perm)
}

func decode(t *testing.T, data []byte) []string {
	t.Helper()
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, data)
	}
	return doc.DatasourceList
}

func TestEncode(t *testing.T) {
	t.Parallel()

	data, err := Encode([]datasource.Name{datasource.Ec2, datasource.None})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("datasource_list:")) {
		t.Errorf("document should start with the list key, got:\n%s", data)
	}
	if got, want := decode(t, data), []string{"Ec2", "None"}; !slices.Equal(got, want) {
		t.Errorf("decoded = %v, want %v", got, want)
	}
}

func TestWriter_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := NewWriter(fsys, testOutput).Write([]datasource.Name{datasource.None}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	info, err := fsys.Stat("/run/cloud-init")
	if err != nil || !info.IsDir() {
		t.Fatalf("parent directory not created: %v", err)
	}
	data, err := afero.ReadFile(fsys, testOutput.String())
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := decode(t, data), []string{"None"}; !slices.Equal(got, want) {
		t.Errorf("decoded = %v, want %v", got, want)
	}
}

func TestWriter_TruncatesExistingFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	long := bytes.Repeat([]byte("# stale\n"), 64)
	if err := afero.WriteFile(fsys, testOutput.String(), long, 0o600); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(fsys, testOutput)
	if err := w.Write([]datasource.Name{datasource.GCE, datasource.None}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, _ := afero.ReadFile(fsys, testOutput.String())
	if bytes.Contains(data, []byte("stale")) {
		t.Errorf("old content survived:\n%s", data)
	}
	if got, want := decode(t, data), []string{"GCE", "None"}; !slices.Equal(got, want) {
		t.Errorf("decoded = %v, want %v", got, want)
	}
}

func TestWriter_Idempotent(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	w := NewWriter(fsys, testOutput)
	list := []datasource.Name{datasource.NoCloud, datasource.Oracle, datasource.None}

	if err := w.Write(list); err != nil {
		t.Fatal(err)
	}
	first, _ := afero.ReadFile(fsys, testOutput.String())
	if err := w.Write(list); err != nil {
		t.Fatal(err)
	}
	second, _ := afero.ReadFile(fsys, testOutput.String())

	if !bytes.Equal(first, second) {
		t.Errorf("outputs differ:\n%s\n---\n%s", first, second)
	}
}

func TestWriter_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fs     afero.Fs
		wantOp string
	}{
		{"mkdir denied", readOnlyFs{Fs: afero.NewMemMapFs(), failMkdir: true}, OpCreateDir},
		{"open denied", readOnlyFs{Fs: afero.NewMemMapFs()}, OpWrite},
		{"read-only filesystem", afero.NewReadOnlyFs(afero.NewMemMapFs()), OpCreateDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewWriter(tt.fs, testOutput).Write([]datasource.Name{datasource.None})
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("Write() error = %v, want *issue.ActionableError", err)
			}
			if ae.Operation != tt.wantOp {
				t.Errorf("Operation = %q, want %q", ae.Operation, tt.wantOp)
			}
			if !ae.HasSuggestions() {
				t.Error("expected suggestions")
			}
		})
	}
}

func TestWriter_Path(t *testing.T) {
	t.Parallel()

	if got := NewWriter(afero.NewMemMapFs(), testOutput).Path(); got != testOutput {
		t.Errorf("Path() = %q, want %q", got, testOutput)
	}
}
