// SPDX-License-Identifier: MPL-2.0

package output

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/invowk/dsidentify/internal/datasource"
	"github.com/invowk/dsidentify/internal/issue"
	"github.com/invowk/dsidentify/pkg/fspath"
	"github.com/invowk/dsidentify/pkg/types"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Operations reported by Write failures, in ActionableError.Operation.
const (
	OpEncode    = "serialize datasource list"
	OpCreateDir = "create output directory"
	OpWrite     = "write datasource configuration"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

type (
	// Document is the YAML shape consumed by cloud-init.
	Document struct {
		DatasourceList []string `yaml:"datasource_list"`
	}

	// Writer persists the result document to a fixed path.
	Writer struct {
		fs   afero.Fs
		path types.FilesystemPath
	}
)

// Encode renders the document for list.
func Encode(list []datasource.Name) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Document{DatasourceList: datasource.Strings(list)}); err != nil {
		return nil, fmt.Errorf("encode datasource list: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode datasource list: %w", err)
	}
	return buf.Bytes(), nil
}

// NewWriter creates a Writer targeting path inside fsys.
func NewWriter(fsys afero.Fs, path types.FilesystemPath) *Writer {
	return &Writer{fs: fsys, path: path}
}

// Path returns the output path.
func (w *Writer) Path() types.FilesystemPath {
	return w.path
}

// Write creates the parent directory if needed and replaces the output file
// with the document for list. Every failure is an *issue.ActionableError.
func (w *Writer) Write(list []datasource.Name) error {
	data, err := Encode(list)
	if err != nil {
		return issue.WrapWithContext(err, OpEncode, "")
	}
	return w.WriteDocument(data)
}

// WriteDocument is Write for an already encoded document.
func (w *Writer) WriteDocument(data []byte) error {
	dir := fspath.Dir(w.path)
	if err := w.fs.MkdirAll(dir.String(), dirPerm); err != nil {
		return issue.NewErrorContext().
			WithOperation(OpCreateDir).
			WithResource(dir.String()).
			WithSuggestions(
				"Check that the root prefix is writable",
				"Make sure run/ is mounted (it is normally a tmpfs)",
			).
			Wrap(err).
			BuildError()
	}

	f, err := w.fs.OpenFile(w.path.String(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return w.writeError(err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return w.writeError(err)
	}
	if err := f.Close(); err != nil {
		return w.writeError(err)
	}

	slog.Debug("wrote datasource list", "path", w.path.String(), "bytes", len(data))
	return nil
}

func (w *Writer) writeError(err error) error {
	return issue.NewErrorContext().
		WithOperation(OpWrite).
		WithResource(w.path.String()).
		WithSuggestion("Check permissions on the output directory").
		Wrap(err).
		BuildError()
}
