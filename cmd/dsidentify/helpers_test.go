// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/invowk/dsidentify/internal/config"

	"github.com/spf13/afero"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the command tree against fs. Not safe for parallel use:
// a run replaces the default slog logger.
func runCLI(t *testing.T, fs afero.Fs, args ...string) cliResult {
	t.Helper()

	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{
		Filesystem: func(*config.Config) afero.Fs { return fs },
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	root, err := NewRootCommand(app)
	if err != nil {
		t.Fatalf("NewRootCommand() error: %v", err)
	}
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err = root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
