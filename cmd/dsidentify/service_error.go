// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/invowk/dsidentify/internal/config"
	"github.com/invowk/dsidentify/internal/issue"
	"github.com/invowk/dsidentify/internal/output"
	"github.com/invowk/dsidentify/pkg/types"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before the issue catalog entry.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a failed run to an issue catalog ID and a styled
// message for CLI rendering.
func classifyError(err error, verbose bool) *ServiceError {
	var issueID issue.Id

	var ae *issue.ActionableError
	switch {
	case errors.Is(err, types.ErrInvalidFilesystemPath):
		issueID = issue.InvalidRootId
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrInvalidLogFormat):
		issueID = issue.ConfigLoadFailedId
	case errors.Is(err, fs.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.As(err, &ae):
		switch ae.Operation {
		case output.OpCreateDir:
			issueID = issue.OutputDirCreateFailedId
		case output.OpWrite:
			issueID = issue.OutputWriteFailedId
		case output.OpEncode:
			issueID = issue.SerializeFailedId
		}
	}

	return newServiceError(err, issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose)))
}

// formatErrorForDisplay uses ActionableError.Format when available so
// suggestions are shown; verbose adds the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderServiceError prints the styled message, then the issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}
